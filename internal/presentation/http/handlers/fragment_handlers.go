package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/quartzgo/internal/application/services"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/pkg/sitepath"
)

// FragmentHandlers renders single components for a given page context.
type FragmentHandlers struct {
	pageService *services.PageService
	site        *site.Config
	cache       *stores.FragmentsStore
	logger      *logging.ChanneledLogger
}

// NewFragmentHandlers creates a new fragment handlers instance. cache may be nil.
func NewFragmentHandlers(pageService *services.PageService, cfg *site.Config, cache *stores.FragmentsStore, logger *logging.ChanneledLogger) *FragmentHandlers {
	return &FragmentHandlers{
		pageService: pageService,
		site:        cfg,
		cache:       cache,
		logger:      logger,
	}
}

// GetLogoFragment handles GET /api/v1/fragments/logo?slug=&class=
// class is a space separated list of display classes.
func (h *FragmentHandlers) GetLogoFragment(c *gin.Context) {
	h.renderFragment(c, "Logo")
}

// GetFragment handles GET /api/v1/fragments/:component
func (h *FragmentHandlers) GetFragment(c *gin.Context) {
	h.renderFragment(c, c.Param("component"))
}

func (h *FragmentHandlers) renderFragment(c *gin.Context, component string) {
	start := time.Now()

	ctx := &rendering.RenderContext{
		Slug:         sitepath.FullSlug(c.Query("slug")),
		Cfg:          h.site,
		DisplayClass: strings.Fields(c.Query("class")),
		Title:        c.Query("title"),
		Tags:         c.QueryArray("tag"),
	}

	key := stores.FragmentKey{
		Component:    component,
		Slug:         string(ctx.Slug),
		DisplayClass: ctx.DisplayClass,
		Title:        ctx.Title,
		Tags:         ctx.Tags,
	}
	if h.cache != nil {
		if chunk, ok := h.cache.GetHTMLChunk(key); ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(chunk.HTML))
			return
		}
	}

	html, err := h.pageService.RenderComponent(component, ctx)
	if err != nil {
		var invalid *rendering.InvalidContextError
		switch {
		case errors.As(err, &invalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": invalid.Field})
		case errors.Is(err, services.ErrUnknownComponent):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if h.cache != nil {
		h.cache.SetHTMLChunk(key, html)
		c.Header("X-Cache", "MISS")
	}
	h.logger.Render().Debug("Fragment rendered", "component", component, "slug", ctx.Slug, "duration", time.Since(start))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
