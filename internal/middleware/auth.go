package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
	"straypaws/rescue-portal/rescue-portal-backend/pkg/security"
)

const actorKey = "actor"

// Auth extracts a bearer token, verifies it and puts the actor on the
// context. Requests without a valid token pass through unauthenticated;
// handlers that need auth use RequireAuth.
func Auth(issuer security.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			c.Next()
			return
		}

		id, err := uuid.Parse(claims.AccountID)
		if err != nil {
			c.Next()
			return
		}

		c.Set(actorKey, authz.Actor{ID: id, Role: authz.Role(claims.Role)})
		c.Next()
	}
}

// RequireAuth aborts with 401 when no actor was established.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetActor(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the actor holds one of the roles.
func RequireRole(roles ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// GetActor returns the authenticated actor, if any.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
