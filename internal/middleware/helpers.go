// internal/middleware/helpers.go
package middleware

import (
	"leadflow-service/internal/pkg/auth"

	"github.com/gin-gonic/gin"
)

// GetPrincipal returns the authenticated Principal, if any.
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// MustGetPrincipal returns the Principal or panics. Only call behind Auth().
func MustGetPrincipal(c *gin.Context) auth.Principal {
	p, ok := GetPrincipal(c)
	if !ok {
		panic("principal not found in context")
	}
	return p
}
