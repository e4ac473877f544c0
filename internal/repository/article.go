package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jshaha/cognitive-load-annotation/internal/database"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

func CreateArticles(ctx context.Context, articles []models.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	result := database.DB.WithContext(ctx).Create(&articles)
	return int(result.RowsAffected), result.Error
}

func GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	result := database.DB.WithContext(ctx).First(&article, id)
	return &article, result.Error
}

func CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).Model(&models.Article{}).Count(&count).Error
	return count, err
}

// NextUnratedArticle picks the article this user has not yet annotated,
// preferring those with the fewest annotations overall and breaking ties
// randomly. Returns gorm.ErrRecordNotFound when the user has rated
// everything.
func NextUnratedArticle(ctx context.Context, userID uint) (*models.Article, error) {
	var article models.Article
	err := database.DB.WithContext(ctx).Raw(`
		SELECT a.*
		FROM articles a
		LEFT JOIN annotations n ON n.article_id = a.id
		WHERE a.id NOT IN (SELECT article_id FROM annotations WHERE user_id = ?)
		GROUP BY a.id
		ORDER BY COUNT(n.id) ASC, RANDOM()
		LIMIT 1`, userID).Scan(&article).Error
	if err != nil {
		return nil, err
	}
	if article.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &article, nil
}

// ArticleWithCount pairs an article with its annotation count for the admin
// article list.
type ArticleWithCount struct {
	models.Article
	AnnotationCount int64
}

// ArticlesWithCounts lists all articles ordered by how much annotation they
// still need.
func ArticlesWithCounts(ctx context.Context) ([]ArticleWithCount, error) {
	var rows []ArticleWithCount
	err := database.DB.WithContext(ctx).Raw(`
		SELECT a.*, COUNT(n.id) AS annotation_count
		FROM articles a
		LEFT JOIN annotations n ON n.article_id = a.id
		GROUP BY a.id
		ORDER BY COUNT(n.id) ASC`).Scan(&rows).Error
	return rows, err
}
