package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/article-engagement-api/internal/identity"
)

// IdentityKey is the context key for the resolved caller
const IdentityKey = "identity"

// Identity resolves the caller once per request. It never rejects a request;
// handlers decide whether an anonymous caller is acceptable.
func Identity(gate identity.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IdentityKey, gate.Resolve(c.Request))
		c.Next()
	}
}

// GetIdentity returns the caller stored by Identity, or Anonymous
func GetIdentity(c *gin.Context) identity.Identity {
	if v, exists := c.Get(IdentityKey); exists {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Anonymous
}
