package repository

import (
	"context"

	"github.com/jshaha/cognitive-load-annotation/internal/database"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

func CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.WithContext(ctx).Create(user)
	return user, result.Error
}

func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "username = ?", username)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

// UserExists reports whether the username or email is already taken.
func UserExists(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// CountParticipants counts non-admin users.
func CountParticipants(ctx context.Context) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.User{}).
		Where("is_admin = ?", false).
		Count(&count).Error
	return count, err
}

// Participants returns all non-admin users.
func Participants(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := database.DB.WithContext(ctx).
		Where("is_admin = ?", false).
		Find(&users).Error
	return users, err
}
