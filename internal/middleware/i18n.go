// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-admin/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", parseLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// parseLanguage picks the locale for the first Accept-Language entry,
// e.g. "zh-TW,zh;q=0.9,en;q=0.8" -> "zh_TW".
func parseLanguage(header string) string {
	if header == "" {
		return i18n.DefaultLang
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	switch first {
	case "zh-TW", "zh-Hant", "zh_TW", "zh-HK":
		return "zh_TW"
	default:
		return i18n.DefaultLang
	}
}
