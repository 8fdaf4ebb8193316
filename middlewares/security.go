package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders menambahkan header keamanan. Response di bawah apiPrefix berisi
// status order yang terus berubah, jadi tidak boleh disimpan cache browser/proxy.
// Stream SSE menimpa Cache-Control dengan nilainya sendiri.
func SecurityHeaders(apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")

		if strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
			c.Header("Cache-Control", "no-store")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
