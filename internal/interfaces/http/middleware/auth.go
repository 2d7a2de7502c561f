// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityResolver turns an Authorization header into the caller's identity
type IdentityResolver interface {
	ResolveIdentity(authHeader string) (string, error)
}

// Auth rejects requests without a valid bearer token and stores the caller's
// identity in the context for handlers.
func Auth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.ResolveIdentity(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": err.Error(),
				"code":  "not_authenticated",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// GetIdentity extracts the caller's identity from gin context
func GetIdentity(c *gin.Context) (string, bool) {
	identity := c.GetString(identityKey)
	return identity, identity != ""
}
