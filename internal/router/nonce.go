package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CspNonceContextKey = "csp_nonce"

// NonceMiddleware gives each session a script nonce. The article page loads
// the tracking scripts through tags carrying this nonce, and the
// Content-Security-Policy header assembled in Setup allows no other script
// source. The nonce lives in the session rather than per request so cached
// pages keep working across navigations.
func NonceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		nonce, ok := session.Get(CspNonceContextKey).(string)
		if !ok || nonce == "" {
			minted, err := sessionToken()
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSP nonce"))
				return
			}
			nonce = minted
			session.Set(CspNonceContextKey, nonce)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}

		c.Set(CspNonceContextKey, nonce)
		c.Next()
	}
}
