// internal/middleware/guard_middleware.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"gfsams-portal/internal/i18n"
	"gfsams-portal/internal/pkg/response"
	authService "gfsams-portal/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRules is the data-driven table of path prefixes deciding which
// pages need a session. Rules are checked against the locale-stripped
// path; public wins over protected, and a path matching neither is
// allowed through.
type RouteRules struct {
	Public    []string
	Protected []string
}

// DefaultRules covers the portal's page surface. API routes guard
// themselves with RequireSession.
func DefaultRules() RouteRules {
	return RouteRules{
		Public:    []string{"/auth", "/api"},
		Protected: []string{"/dashboard", "/profile", "/settings"},
	}
}

type GuardMiddleware struct {
	authService *authService.Service
	rules       RouteRules
	logger      *zap.Logger
}

func NewGuardMiddleware(svc *authService.Service, rules RouteRules, logger *zap.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		authService: svc,
		rules:       rules,
		logger:      logger,
	}
}

// Guard is the route guard applied to every request. It resolves the
// session (refreshing on demand) for protected pages and redirects
// unauthenticated or terminally-errored sessions to the sign-in page,
// preserving the original destination.
func (m *GuardMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale, rest := i18n.SplitLocale(c.Request.URL.Path)

		if matchPrefix(m.rules.Public, rest) {
			c.Next()
			return
		}
		if !matchPrefix(m.rules.Protected, rest) {
			c.Next()
			return
		}

		token, sid, ok := m.resolveSession(c)
		if !ok || !token.Usable(time.Now()) {
			m.redirectToSignIn(c, locale)
			return
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxSessionToken, token)
		c.Next()
	}
}

// RequireSession guards JSON API routes: 401 instead of a redirect.
func (m *GuardMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, sid, ok := m.resolveSession(c)
		if !ok || !token.Usable(time.Now()) {
			response.Unauthorized(c, "authentication required")
			return
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxSessionToken, token)
		c.Next()
	}
}

// OptionalSession resolves the session when present without enforcing
// it, so public pages can adapt to a signed-in user.
func (m *GuardMiddleware) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ctxSessionToken); exists {
			c.Next()
			return
		}
		if token, sid, ok := m.resolveSession(c); ok && token.Usable(time.Now()) {
			c.Set(ctxSessionID, sid)
			c.Set(ctxSessionToken, token)
		}
		c.Next()
	}
}

func (m *GuardMiddleware) resolveSession(c *gin.Context) (*sessionToken, string, bool) {
	cookie, err := c.Cookie(m.authService.CookieName())
	if err != nil || cookie == "" {
		return nil, "", false
	}

	sid, err := m.authService.ParseCookie(cookie)
	if err != nil {
		m.logger.Debug("rejected session cookie", zap.Error(err))
		return nil, "", false
	}

	token, err := m.authService.Resolve(c.Request.Context(), sid)
	if err != nil {
		return nil, "", false
	}
	return token, sid, true
}

func (m *GuardMiddleware) redirectToSignIn(c *gin.Context, locale string) {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	callback := c.Request.URL.Path
	if q := c.Request.URL.RawQuery; q != "" {
		callback += "?" + q
	}
	target := "/" + locale + "/auth/signin?callbackUrl=" + url.QueryEscape(callback)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

func matchPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
