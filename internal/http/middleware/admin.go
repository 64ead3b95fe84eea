package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminPassword gates the admin API on the X-Admin-Password header. An
// empty configured password leaves the surface open, which only makes
// sense for local development.
func AdminPassword(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		given := c.GetHeader("X-Admin-Password")
		if subtle.ConstantTimeCompare([]byte(given), []byte(required)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid admin password",
				},
			})
			return
		}
		c.Next()
	}
}
