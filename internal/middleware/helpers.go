// internal/middleware/helpers.go
package middleware

import (
	domain "gfsams-portal/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

// sessionToken aliases the domain record so middleware signatures stay
// short.
type sessionToken = domain.Token

const (
	ctxSessionID    = "session_id"
	ctxSessionToken = "session_token"
	ctxLocale       = "locale"
)

// GetSessionToken gets the resolved session record from context.
func GetSessionToken(c *gin.Context) (*domain.Token, bool) {
	v, exists := c.Get(ctxSessionToken)
	if !exists {
		return nil, false
	}
	token, ok := v.(*domain.Token)
	return token, ok
}

// MustGetSessionToken gets the session record or panics. Only valid
// after Guard or RequireSession.
func MustGetSessionToken(c *gin.Context) *domain.Token {
	token, ok := GetSessionToken(c)
	if !ok {
		panic("session token not found in context")
	}
	return token
}

// GetSessionID gets the opaque session id from context.
func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSessionID)
	if !exists {
		return "", false
	}
	sid, ok := v.(string)
	return sid, ok
}

// GetLocale returns the request locale set by LocaleMiddleware.
func GetLocale(c *gin.Context) string {
	if v, exists := c.Get(ctxLocale); exists {
		if locale, ok := v.(string); ok {
			return locale
		}
	}
	return ""
}

// IsAuthenticated checks if the request carries a usable session.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(ctxSessionToken)
	return exists
}
