package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo   *Repo
	Tokens TokenService
}

func NewHandler(repo *Repo, tokens TokenService) *Handler {
	return &Handler{Repo: repo, Tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", AuthMiddleware(h.Tokens, h.Repo), h.me)
}

func (h *Handler) me(c *gin.Context) {
	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	u, err := h.Repo.GetByOpenID(c.Request.Context(), claims.OpenID())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		// sign-in recording failed; answer from the token alone
		c.JSON(http.StatusOK, gin.H{
			"open_id": claims.OpenID(),
			"name":    claims.Name,
			"email":   claims.Email,
			"role":    claims.Role,
		})
		return
	}
	c.JSON(http.StatusOK, u)
}
