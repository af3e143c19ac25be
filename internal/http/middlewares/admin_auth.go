package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminHeader = "admin-auth"

// AdminAuth gates admin routes on a shared-secret header. The legacy
// clients send the literal value "true"; the expected value is
// configurable so deployments can at least rotate it. This is a
// placeholder scheme, not a credential system.
func AdminAuth(secret string) gin.HandlerFunc {
	expected := []byte(secret)

	return func(c *gin.Context) {
		got := []byte(c.GetHeader(adminHeader))

		if len(got) == 0 || subtle.ConstantTimeCompare(got, expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: admin access required",
			})
			return
		}

		c.Next()
	}
}
