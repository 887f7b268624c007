package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ReloadClient is one connected preview tab.
type ReloadClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// ReloadBroadcaster manages live reload clients and fans out messages to
// them. Slow clients miss messages rather than block the others.
type ReloadBroadcaster struct {
	clients    map[*ReloadClient]bool
	register   chan *ReloadClient
	unregister chan *ReloadClient
	broadcast  chan []byte
	done       chan struct{}
	mu         sync.RWMutex
	logger     *logging.ChanneledLogger
}

// NewReloadBroadcaster creates a new broadcaster instance.
func NewReloadBroadcaster(logger *logging.ChanneledLogger) *ReloadBroadcaster {
	return &ReloadBroadcaster{
		clients:    make(map[*ReloadClient]bool),
		register:   make(chan *ReloadClient),
		unregister: make(chan *ReloadClient),
		broadcast:  make(chan []byte, 8),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop until ctx is cancelled. This should
// be run as a goroutine.
func (b *ReloadBroadcaster) Run(ctx context.Context) {
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for client := range b.clients {
				close(client.Send)
				delete(b.clients, client)
			}
			b.mu.Unlock()
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.Reload().Debug("Reload client registered", "clients", count)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.Reload().Debug("Reload client unregistered", "clients", count)

		case message := <-b.broadcast:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client.Send <- message:
				default:
				}
			}
			count := len(b.clients)
			b.mu.RUnlock()
			b.logger.Reload().Info("Reload broadcast", "message", string(message), "clients", count)
		}
	}
}

// Notify queues message for every connected client without blocking. When
// the queue is full the message is dropped; reload messages are idempotent.
func (b *ReloadBroadcaster) Notify(message string) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.broadcast <- []byte(message):
	default:
		b.logger.Reload().Debug("Reload queue full, dropping message", "message", message)
	}
}

// ClientCount returns the number of connected clients.
func (b *ReloadBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Serve attaches an upgraded connection and blocks until it closes.
func (b *ReloadBroadcaster) Serve(conn *websocket.Conn) {
	client := &ReloadClient{Conn: conn, Send: make(chan []byte, 4)}

	select {
	case b.register <- client:
	case <-b.done:
		conn.Close()
		return
	}

	go b.writePump(client)

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case b.unregister <- client:
	case <-b.done:
	}
}

func (b *ReloadBroadcaster) writePump(client *ReloadClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
