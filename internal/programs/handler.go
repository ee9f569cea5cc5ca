package programs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)              // GET /programs
	rg.POST("/query", h.query)      // POST /programs/query
	rg.GET("/search", h.search)     // GET /programs/search?q=
	rg.GET("/:id", h.getByID)       // GET /programs/:id
	rg.GET("/:id/detail", h.detail) // GET /programs/:id/detail
}

func (h *Handler) list(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondPage(c, f)
}

func (h *Handler) query(c *gin.Context) {
	var f Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body: " + err.Error()})
		return
	}
	h.respondPage(c, f)
}

func (h *Handler) respondPage(c *gin.Context, f Filter) {
	page, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) search(c *gin.Context) {
	limit, err := optionalInt(c.Query("limit"), "limit")
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.Svc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.Svc.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// filterFromQuery reads a Filter from URL parameters. List parameters
// accept repeated keys (cityIds=1&cityIds=2) and comma lists (cityIds=1,2).
func filterFromQuery(c *gin.Context) (Filter, error) {
	var (
		f   Filter
		err error
	)
	if f.DetailedFieldIDs, err = queryIDs(c, "detailedFieldIds"); err != nil {
		return f, err
	}
	if f.CityIDs, err = queryIDs(c, "cityIds"); err != nil {
		return f, err
	}
	if f.UniversityIDs, err = queryIDs(c, "universityIds"); err != nil {
		return f, err
	}
	f.DegreeTypes = queryList(c, "degreeTypes")
	f.UniversityTypes = queryList(c, "universityTypes")
	f.Query = c.Query("query")
	f.SortBy = c.Query("sortBy")
	f.SortOrder = c.Query("sortOrder")
	if f.Limit, err = optionalInt(c.Query("limit"), "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = optionalInt(c.Query("offset"), "offset"); err != nil {
		return f, err
	}
	return f, nil
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func queryIDs(c *gin.Context, key string) ([]int64, error) {
	raw := queryList(c, key)
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, invalidf("%s: %q is not an integer id", key, s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalInt(s, name string) (*int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, invalidf("%s: %q is not an integer", name, s)
	}
	return &n, nil
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps composer errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrStoreUnavailable):
		zap.L().Error("catalog store unavailable", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog temporarily unavailable"})
	default:
		zap.L().Error("program request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
