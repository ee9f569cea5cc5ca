package universities

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unihub/internal/logbuf"
)

const logModule = "universities"

type Handler struct {
	Repo *Repo
	Logs *logbuf.Buffer
}

func NewHandler(repo *Repo, logs *logbuf.Buffer) *Handler {
	return &Handler{Repo: repo, Logs: logs}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.byCountry) // GET /universities?countryId=
	rg.GET("/:id", h.byID)  // GET /universities/:id
}

func (h *Handler) byCountry(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("countryId"))
	countryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || countryID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "countryId is required"})
		return
	}

	items, err := h.Repo.ByCountry(c.Request.Context(), countryID)
	if err != nil {
		h.unavailable(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) byID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	p, err := h.Repo.ByID(c.Request.Context(), id)
	if err != nil {
		h.unavailable(c, err)
		return
	}
	if p == nil {
		h.Logs.Warn(logModule, "University not found with ID: "+strconv.FormatInt(id, 10), nil)
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) unavailable(c *gin.Context, err error) {
	h.Logs.Error(logModule, "University lookup failed", map[string]any{"path": c.FullPath()}, err)
	zap.L().Error("university lookup failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
}
