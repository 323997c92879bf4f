// internal/handlers/pages/pages_handler.go
package pages

import (
	"net/http"
	"time"

	"gfsams-portal/internal/i18n"
	"gfsams-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PagesHandler struct {
	logger *zap.Logger
}

func NewPagesHandler(logger *zap.Logger) *PagesHandler {
	return &PagesHandler{logger: logger}
}

// Home renders the localized landing page.
func (h *PagesHandler) Home(c *gin.Context) {
	locale := middleware.GetLocale(c)

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Locale":       locale,
		"Dir":          i18n.Dir(locale),
		"AppTitle":     i18n.T(locale, "app.title"),
		"Welcome":      i18n.T(locale, "home.welcome"),
		"Tagline":      i18n.T(locale, "home.tagline"),
		"SignInLbl":    i18n.T(locale, "home.signin"),
		"DashboardLbl": i18n.T(locale, "home.dashboard"),
		"SignedIn":     middleware.IsAuthenticated(c),
	})
}

// Dashboard renders the protected dashboard for the resolved session.
func (h *PagesHandler) Dashboard(c *gin.Context) {
	locale := middleware.GetLocale(c)
	token := middleware.MustGetSessionToken(c)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Locale":      locale,
		"Dir":         i18n.Dir(locale),
		"AppTitle":    i18n.T(locale, "app.title"),
		"Title":       i18n.T(locale, "dashboard.title"),
		"Welcome":     i18n.T(locale, "dashboard.welcome"),
		"RolesLbl":    i18n.T(locale, "dashboard.roles"),
		"NoRolesLbl":  i18n.T(locale, "dashboard.no_roles"),
		"ExpiresLbl":  i18n.T(locale, "dashboard.expires"),
		"SignOutLbl":  i18n.T(locale, "dashboard.signout"),
		"DisplayName": token.DisplayName,
		"Email":       token.Email,
		"Roles":       token.Roles,
		"ExpiresAt":   token.ExpiresAt.Format(time.RFC1123),
	})
}
