package handlers

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

const flashSessionKey = "flash"

// currentUser returns the user loaded by the session middleware. Handlers
// behind AuthRequired can rely on it being present.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// setFlash stores a one-shot notice for the next rendered page.
func setFlash(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.Set(flashSessionKey, msg)
	session.Save()
}

// popFlash returns and clears the pending notice, if any.
func popFlash(c *gin.Context) string {
	session := sessions.Default(c)
	msg, _ := session.Get(flashSessionKey).(string)
	if msg != "" {
		session.Delete(flashSessionKey)
		session.Save()
	}
	return msg
}

// pageContext seeds the template data every page needs.
func pageContext(c *gin.Context) gin.H {
	h := gin.H{
		"csrfToken": c.GetString("csrf_token"),
		"cspNonce":  c.GetString("csp_nonce"),
		"flash":     popFlash(c),
	}
	if value, ok := c.Get("user"); ok {
		h["user"] = value.(*models.User)
	}
	return h
}
