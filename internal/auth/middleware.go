package auth

import (
	"childguard/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ContextClaims = "claims"
	ContextUserID = "userId"
)

// RevocationChecker reports whether a token ID has been signed out.
type RevocationChecker interface {
	IsTokenRevoked(tokenID string) (bool, error)
}

// AccessTokenMiddleware requires a valid, unrevoked bearer token and stores
// its claims in the gin context.
func AccessTokenMiddleware(tokens *TokenManager, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsTokenRevoked(claims.ID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify token"})
				return
			}
			if isRevoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
				return
			}
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// websocket upgrades, so the access_token query parameter is accepted too.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if header == "" {
		return c.Query("access_token")
	}
	return ""
}

// AdminMiddleware must run after AccessTokenMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		if claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by AccessTokenMiddleware.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*Claims)
	return claims, ok
}
