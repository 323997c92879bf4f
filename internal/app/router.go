// internal/app/router.go
package app

import (
	"net/http"

	authHandler "gfsams-portal/internal/handlers/auth"
	pagesHandler "gfsams-portal/internal/handlers/pages"
	"gfsams-portal/internal/i18n"
	"gfsams-portal/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	PagesHandler    *pagesHandler.PagesHandler
	GuardMiddleware *middleware.GuardMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	// ==================== Internal API ====================
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	authAPI := api.Group("/auth")
	authAPI.Use(h.GuardMiddleware.RequireSession())
	{
		authAPI.GET("/session", h.AuthHandler.Session)
		authAPI.POST("/revoke", h.AuthHandler.Revoke)
		authAPI.GET("/userinfo", h.AuthHandler.UserInfo)
		authAPI.POST("/introspect", h.AuthHandler.Introspect)
	}

	// ==================== Localized pages ====================
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/"+i18n.DefaultLocale)
	})

	pages := r.Group("/:locale")
	pages.Use(middleware.LocaleMiddleware(), h.GuardMiddleware.OptionalSession())
	{
		pages.GET("", h.PagesHandler.Home)
		pages.GET("/dashboard", h.PagesHandler.Dashboard)

		localeAuth := pages.Group("/auth")
		{
			localeAuth.GET("/signin", h.AuthHandler.ShowSignIn)
			localeAuth.POST("/signin", h.AuthHandler.SignIn)
			localeAuth.POST("/signout", h.AuthHandler.SignOut)
		}
	}

	// Unprefixed page paths pick up the default locale, the way the
	// original app always locale-prefixes its URLs. The route guard has
	// already run for these requests, so protected paths only get here
	// with a usable session.
	r.NoRoute(func(c *gin.Context) {
		locale, rest := i18n.SplitLocale(c.Request.URL.Path)
		if locale == "" && rest != "/" {
			target := "/" + i18n.DefaultLocale + rest
			if q := c.Request.URL.RawQuery; q != "" {
				target += "?" + q
			}
			c.Redirect(http.StatusFound, target)
			return
		}
		c.Status(http.StatusNotFound)
	})
}
