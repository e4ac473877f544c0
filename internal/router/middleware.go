package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
	"github.com/jshaha/cognitive-load-annotation/internal/repository"
)

const UserContextKey = "user"

// UserLoaderMiddleware checks for a userID in the session. If found, it loads
// the user from the database and adds it to the context. This ensures we
// don't have "zombie" sessions for users who no longer exist.
func UserLoaderMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("userID").(uint)
		if !ok {
			// No user ID in session, proceed as a guest.
			c.Next()
			return
		}

		user, err := repository.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// User ID from session is invalid (user was deleted, etc.)
			// Clear the bad session and treat as a guest.
			log.Debug("Clearing session for missing user", zap.Uint("userID", userID))
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			session.Save()
			c.Next()
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// AuthRequired checks that a valid user was loaded into the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserContextKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRequired additionally checks the admin flag. Non-admins are bounced
// back to their dashboard.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(UserContextKey)
		if !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		user := value.(*models.User)
		if !user.IsAdmin {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
