package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/contentindex"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// PageIndex is the read side of the content index.
type PageIndex interface {
	ListPages(ctx context.Context) ([]*contentindex.Entry, error)
	GetPage(ctx context.Context, slug sitepath.FullSlug) (*contentindex.Entry, error)
	LatestBuild(ctx context.Context) (*contentindex.Build, error)
	Search(ctx context.Context, q string, limit int) ([]*contentindex.SearchResult, error)
}

// PageHandlers exposes the content index.
type PageHandlers struct {
	index  PageIndex
	logger *logging.ChanneledLogger
}

func NewPageHandlers(index PageIndex, logger *logging.ChanneledLogger) *PageHandlers {
	return &PageHandlers{
		index:  index,
		logger: logger,
	}
}

// ListPages handles GET /api/v1/pages
func (h *PageHandlers) ListPages(c *gin.Context) {
	pages, err := h.index.ListPages(c.Request.Context())
	if err != nil {
		h.logger.Database().Error("Failed to list pages", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages, "count": len(pages)})
}

// GetPage handles GET /api/v1/pages/*slug. An empty slug is the home page.
func (h *PageHandlers) GetPage(c *gin.Context) {
	slug := strings.Trim(c.Param("slug"), "/")
	if slug == "" {
		slug = "index"
	}

	page, err := h.index.GetPage(c.Request.Context(), sitepath.FullSlug(slug))
	if errors.Is(err, contentindex.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found", "slug": slug})
		return
	}
	if err != nil {
		h.logger.Database().Error("Failed to get page", "slug", slug, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetLatestBuild handles GET /api/v1/builds/latest
func (h *PageHandlers) GetLatestBuild(c *gin.Context) {
	build, err := h.index.LatestBuild(c.Request.Context())
	if errors.Is(err, contentindex.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no build recorded"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, build)
}

// Search handles GET /api/v1/search?q=&limit=
func (h *PageHandlers) Search(c *gin.Context) {
	q := c.Query("q")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	results, err := h.index.Search(c.Request.Context(), q, limit)
	if errors.Is(err, contentindex.ErrEmptyQuery) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Database().Error("Search failed", "query", q, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results, "count": len(results)})
}
