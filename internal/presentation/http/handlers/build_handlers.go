package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/quartzgo/internal/application/services"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

// Builder runs a site build.
type Builder interface {
	Build(ctx context.Context) (*services.BuildReport, error)
}

// BuildHandlers triggers builds on demand.
type BuildHandlers struct {
	builder Builder
	logger  *logging.ChanneledLogger
}

func NewBuildHandlers(builder Builder, logger *logging.ChanneledLogger) *BuildHandlers {
	return &BuildHandlers{
		builder: builder,
		logger:  logger,
	}
}

// TriggerBuild handles POST /api/v1/build
func (h *BuildHandlers) TriggerBuild(c *gin.Context) {
	report, err := h.builder.Build(c.Request.Context())
	if err != nil {
		h.logger.Build().Error("Requested build failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
