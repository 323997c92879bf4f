// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	domain "gfsams-portal/internal/domain/auth"
	"gfsams-portal/internal/i18n"
	"gfsams-portal/internal/identity"
	"gfsams-portal/internal/middleware"
	xerrors "gfsams-portal/internal/pkg/errors"
	"gfsams-portal/internal/pkg/response"
	authService "gfsams-portal/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authService.Service
	logger      *zap.Logger
}

func NewAuthHandler(svc *authService.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: svc,
		logger:      logger,
	}
}

// ========== Sign-in page ==========

// ShowSignIn renders the sign-in form. A signed-in user is bounced
// straight to the callback target.
func (h *AuthHandler) ShowSignIn(c *gin.Context) {
	locale := middleware.GetLocale(c)
	callback := sanitizeCallback(c.Query("callbackUrl"), locale)

	if middleware.IsAuthenticated(c) {
		c.Redirect(http.StatusFound, callback)
		return
	}

	c.HTML(http.StatusOK, "signin.html", h.signInView(locale, callback, "", ""))
}

// SignIn handles the credential post. Invalid credentials re-render
// the form with an inline message; success sets the session cookie and
// redirects to the preserved destination.
func (h *AuthHandler) SignIn(c *gin.Context) {
	locale := middleware.GetLocale(c)

	var req domain.SignInRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusOK, "signin.html",
			h.signInView(locale, sanitizeCallback(req.CallbackURL, locale), "", i18n.T(locale, "signin.invalid")))
		return
	}
	callback := sanitizeCallback(req.CallbackURL, locale)

	_, cookie, _, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.HTML(http.StatusOK, "signin.html",
			h.signInView(locale, callback, req.Username, i18n.T(locale, "signin.invalid")))
		return
	}

	h.setSessionCookie(c, cookie)
	c.Redirect(http.StatusFound, callback)
}

// SignOut revokes and clears the session, then returns to the home
// page. Sign-out always succeeds locally.
func (h *AuthHandler) SignOut(c *gin.Context) {
	locale := middleware.GetLocale(c)
	if locale == "" {
		locale = i18n.DefaultLocale
	}

	if value, err := c.Cookie(h.authService.CookieName()); err == nil {
		if sid, err := h.authService.ParseCookie(value); err == nil {
			if err := h.authService.Logout(c.Request.Context(), sid); err != nil {
				h.logger.Warn("logout cleanup failed", zap.Error(err))
			}
		}
	}

	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/"+locale)
}

// ========== Internal API ==========

// Session returns the current session for client scripts. Requires an
// active session.
func (h *AuthHandler) Session(c *gin.Context) {
	token := middleware.MustGetSessionToken(c)
	response.Success(c, http.StatusOK, "session active", domain.SessionView{
		UserID:      token.UserID,
		Username:    token.Username,
		Email:       token.Email,
		DisplayName: token.DisplayName,
		Roles:       token.Roles,
		ExpiresAt:   token.ExpiresAt.Format(time.RFC3339),
	})
}

// Revoke proxies a token revocation to the identity service. Upstream
// failures pass their status through.
func (h *AuthHandler) Revoke(c *gin.Context) {
	token := middleware.MustGetSessionToken(c)

	var req domain.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "token is required", xerrors.ErrMissingToken)
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), token, req.Token); err != nil {
		h.logger.Error("revocation proxy failed", zap.Error(err))

		status := http.StatusBadGateway
		var se *identity.StatusError
		if errors.As(err, &se) && se.Status >= http.StatusBadRequest {
			status = se.Status
		}
		response.Error(c, status, "failed to revoke token", xerrors.ErrUpstreamFailure)
		return
	}

	response.Success(c, http.StatusOK, "token revoked", nil)
}

// UserInfo proxies the OIDC userinfo endpoint for the session's access
// token.
func (h *AuthHandler) UserInfo(c *gin.Context) {
	token := middleware.MustGetSessionToken(c)

	info, err := h.authService.UserInfo(c.Request.Context(), token)
	if err != nil {
		h.logger.Error("userinfo fetch failed", zap.Error(err))
		response.Error(c, http.StatusBadGateway, "failed to fetch user info", xerrors.ErrUpstreamFailure)
		return
	}

	response.Success(c, http.StatusOK, "user info", info)
}

// Introspect checks a token's activity with the identity service.
func (h *AuthHandler) Introspect(c *gin.Context) {
	var req domain.IntrospectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "token is required", xerrors.ErrMissingToken)
		return
	}

	active, err := h.authService.IntrospectToken(c.Request.Context(), req.Token, req.TokenTypeHint)
	if err != nil {
		h.logger.Error("introspection failed", zap.Error(err))
		response.Error(c, http.StatusBadGateway, "failed to introspect token", xerrors.ErrUpstreamFailure)
		return
	}

	response.Success(c, http.StatusOK, "token introspected", gin.H{"active": active})
}

// ========== Helpers ==========

func (h *AuthHandler) signInView(locale, callback, username, errMsg string) gin.H {
	return gin.H{
		"Locale":      locale,
		"Dir":         i18n.Dir(locale),
		"Title":       i18n.T(locale, "signin.title"),
		"AppTitle":    i18n.T(locale, "app.title"),
		"UsernameLbl": i18n.T(locale, "signin.username"),
		"PasswordLbl": i18n.T(locale, "signin.password"),
		"SubmitLbl":   i18n.T(locale, "signin.submit"),
		"Username":    username,
		"CallbackURL": callback,
		"Error":       errMsg,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authService.CookieName(), value, h.authService.CookieMaxAge(), "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authService.CookieName(), "", -1, "/", "", false, true)
}

// sanitizeCallback keeps post-login redirects on-site.
func sanitizeCallback(callback, locale string) string {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	if callback == "" || !strings.HasPrefix(callback, "/") || strings.HasPrefix(callback, "//") {
		return "/" + locale + "/dashboard"
	}
	return callback
}
