package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Principal is the authenticated forum user as forwarded by the host
// application gateway. The plugin never resolves sessions itself; the host
// terminates authentication and forwards the member context in headers.
type Principal struct {
	UserID      string
	CommunityID string
	Roles       []string
}

// IsAdmin reports whether the host marked the member as a community admin.
func (p Principal) IsAdmin() bool {
	for _, role := range p.Roles {
		if strings.EqualFold(role, "admin") {
			return true
		}
	}
	return false
}

const principalKey = "principal"

// HostAuth extracts the member context forwarded by the host gateway.
// Requests without a user id are rejected.
func HostAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-Id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: host user context required"})
			return
		}

		principal := Principal{
			UserID:      userID,
			CommunityID: c.GetHeader("X-Community-Id"),
		}
		if raw := c.GetHeader("X-User-Roles"); raw != "" {
			for _, role := range strings.Split(raw, ",") {
				if role = strings.TrimSpace(role); role != "" {
					principal.Roles = append(principal.Roles, role)
				}
			}
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin rejects requests from members without the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: host user context required"})
			return
		}
		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated member from the gin context.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := v.(Principal)
	return principal, ok
}
