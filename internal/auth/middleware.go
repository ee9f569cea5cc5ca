package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CtxClaimsKey = "auth_claims"

// AuthMiddleware requires a valid bearer token. With a repo, the caller is
// recorded and the stored role becomes the effective role.
func AuthMiddleware(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if repo != nil {
			u, err := repo.RecordSignIn(c.Request.Context(), claims)
			if err != nil {
				zap.L().Warn("record sign-in failed", zap.String("open_id", claims.OpenID()), zap.Error(err))
			} else {
				claims.Role = u.Role
			}
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := MustGetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(header[len("Bearer "):])
	return tok, tok != ""
}
