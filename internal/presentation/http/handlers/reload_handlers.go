package handlers

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

// ReloadHandlers upgrades live reload connections.
type ReloadHandlers struct {
	broadcaster *messaging.ReloadBroadcaster
	upgrader    websocket.Upgrader
	logger      *logging.ChanneledLogger
}

// NewReloadHandlers accepts same-host connections plus the given origins.
func NewReloadHandlers(broadcaster *messaging.ReloadBroadcaster, origins []string, logger *logging.ChanneledLogger) *ReloadHandlers {
	return &ReloadHandlers{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || slices.Contains(origins, origin) {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && u.Host == r.Host
			},
		},
		logger: logger,
	}
}

// Connect handles GET /ws/reload
func (h *ReloadHandlers) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Reload().Warn("Reload upgrade failed", "error", err.Error())
		return
	}
	h.broadcaster.Serve(conn)
}
