package isced

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/broad", h.broad)                  // GET /isced/broad
	rg.GET("/broad/:id/narrow", h.narrow)      // GET /isced/broad/:id/narrow
	rg.GET("/narrow/:id/detailed", h.detailed) // GET /isced/narrow/:id/detailed
}

func (h *Handler) broad(c *gin.Context) {
	items, err := h.Repo.BroadFields(c.Request.Context())
	if err != nil {
		unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) narrow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.Repo.NarrowFields(c.Request.Context(), id)
	if err != nil {
		unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) detailed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.Repo.DetailedFields(c.Request.Context(), id)
	if err != nil {
		unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func unavailable(c *gin.Context, err error) {
	zap.L().Error("isced lookup failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
}
