package router

import (
	"crypto/rand"
	"encoding/base64"
)

// sessionToken mints the random values the session middleware hands out:
// the CSRF token and the CSP script nonce. 32 bytes of entropy, URL-safe
// encoding so the value survives form fields, headers and HTML attributes
// without escaping.
func sessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
