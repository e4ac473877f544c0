package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/repository"
	"github.com/jshaha/cognitive-load-annotation/internal/utils"
)

type AuthHandler struct {
	log *zap.Logger
}

func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

func (h *AuthHandler) ShowLoginPage(c *gin.Context) {
	if _, loggedIn := c.Get("user"); loggedIn {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", pageContext(c))
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := repository.GetUserByUsername(c.Request.Context(), username)
	if err != nil || !user.CheckPassword(password) {
		data := pageContext(c)
		data["error"] = "Invalid username or password."
		c.HTML(http.StatusUnauthorized, "login.tmpl", data)
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session on login", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to login")
		return
	}

	h.log.Info("User logged in", zap.String("username", user.Username))
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) ShowRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", pageContext(c))
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	fail := func(msg string) {
		data := pageContext(c)
		data["error"] = msg
		data["username"] = username
		data["email"] = email
		c.HTML(http.StatusBadRequest, "register.tmpl", data)
	}

	if username == "" {
		fail("Username is required.")
		return
	}
	if !utils.IsValidEmail(email) {
		fail("Please enter a valid email address.")
		return
	}
	if !utils.IsComplexPassword(password) {
		fail("Password must be at least 8 characters and mix upper case, lower case, digits and symbols.")
		return
	}

	taken, err := repository.UserExists(c.Request.Context(), username, email)
	if err != nil {
		h.log.Error("Failed to check for existing user", zap.Error(err))
		fail("Registration failed. Please try again.")
		return
	}
	if taken {
		fail("A user with that username or email already exists.")
		return
	}

	if _, err := repository.CreateUser(c.Request.Context(), username, email, password, false); err != nil {
		h.log.Error("Failed to create user", zap.Error(err))
		fail("Registration failed. Please try again.")
		return
	}

	h.log.Info("User registered", zap.String("username", username))
	setFlash(c, "Account created. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		h.log.Error("Failed to clear session on logout", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to logout")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}
