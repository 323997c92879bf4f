// internal/middleware/locale_middleware.go
package middleware

import (
	"net/http"

	"gfsams-portal/internal/i18n"

	"github.com/gin-gonic/gin"
)

// LocaleMiddleware validates the :locale route segment. An unsupported
// locale is a hard 404, not a redirect.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := c.Param("locale")
		if !i18n.Supported(locale) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Set(ctxLocale, locale)
		c.Next()
	}
}
