// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"leadflow-service/internal/pkg/auth"
	"leadflow-service/internal/pkg/jwt"
	"leadflow-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type AuthMiddleware struct {
	verifier *jwt.Verifier
}

func NewAuthMiddleware(verifier *jwt.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Auth validates the bearer token and stores a typed Principal in the
// request context. Every role decision downstream reads that Principal;
// nothing re-derives the caller's identity after this point.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		roles := make([]auth.Role, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			roles = append(roles, auth.Role(r))
		}

		c.Set(principalKey, auth.Principal{
			IdentityID: claims.IdentityID,
			Roles:      roles,
		})

		c.Next()
	}
}

// RequireRole requires the principal to hold at least one of the given roles.
// MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, http.StatusForbidden, "authentication required", nil)
			return
		}

		for _, role := range roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "insufficient permissions")
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
