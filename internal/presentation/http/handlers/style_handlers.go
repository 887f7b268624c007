package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/quartzgo/internal/application/services"
)

// StyleHandlers serves the stylesheet of the latest build.
type StyleHandlers struct {
	buildService *services.BuildService
}

func NewStyleHandlers(buildService *services.BuildService) *StyleHandlers {
	return &StyleHandlers{buildService: buildService}
}

// GetStyles handles GET /api/v1/styles
func (h *StyleHandlers) GetStyles(c *gin.Context) {
	sheet := h.buildService.Stylesheet()
	if sheet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no build has completed yet"})
		return
	}

	etag := `"` + sheet.Hash + `"`
	c.Header("ETag", etag)
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("X-Stylesheet-Path", sheet.Path())
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(sheet.Content))
}
