package logbuf

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Buf *Buffer
}

func NewHandler(buf *Buffer) *Handler {
	return &Handler{Buf: buf}
}

// RegisterRoutes mounts the inspection routes. clearGuards run before DELETE.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, clearGuards ...gin.HandlerFunc) {
	rg.GET("", h.list)        // GET /logs
	rg.GET("/stats", h.stats) // GET /logs/stats
	rg.DELETE("", append(clearGuards, h.clear)...)
}

func (h *Handler) list(c *gin.Context) {
	f, err := ParseFilter(c.Query("level"), c.Query("module"), c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items := h.Buf.Query(f)
	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Buf.Stats())
}

func (h *Handler) clear(c *gin.Context) {
	h.Buf.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ParseFilter validates raw inspection parameters. Empty strings mean "any".
func ParseFilter(level, module, limit string) (Filter, error) {
	var f Filter
	if strings.TrimSpace(level) != "" {
		l, err := ParseLevel(level)
		if err != nil {
			return Filter{}, err
		}
		f.Level = l
	}
	f.Module = strings.TrimSpace(module)
	if strings.TrimSpace(limit) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(limit))
		if err != nil || n < 0 {
			return Filter{}, &limitError{raw: limit}
		}
		f.Limit = n
	}
	return f, nil
}

type limitError struct{ raw string }

func (e *limitError) Error() string {
	return "invalid limit " + strconv.Quote(e.raw) + ": must be a non-negative integer"
}
