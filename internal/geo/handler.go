package geo

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
	rg.GET("", h.countries)         // GET /countries
	rg.GET("/:id", h.country)       // GET /countries/:id
	rg.GET("/:id/cities", h.cities) // GET /countries/:id/cities
}

func (h *Handler) countries(c *gin.Context) {
	items, err := h.Repo.Countries(c.Request.Context())
	if err != nil {
		unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) country(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	country, err := h.Repo.Country(c.Request.Context(), id)
	if err != nil {
		unavailable(c, err)
		return
	}
	if country == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *Handler) cities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.Repo.Cities(c.Request.Context(), id)
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
	zap.L().Error("geo lookup failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
}
