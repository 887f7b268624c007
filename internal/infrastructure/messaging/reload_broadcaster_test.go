package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

func newReloadServer(t *testing.T, b *ReloadBroadcaster) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b.Serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestReloadBroadcasterNotifiesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewReloadBroadcaster(logging.NewNopLogger())
	go b.Run(ctx)
	url := newReloadServer(t, b)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()
		conns = append(conns, conn)
	}
	require.Eventually(t, func() bool { return b.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)

	b.Notify(MessageRebuild)

	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)
		assert.Equal(t, MessageRebuild, string(msg))
	}
}

func TestReloadBroadcasterUnregistersOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewReloadBroadcaster(logging.NewNopLogger())
	go b.Run(ctx)
	url := newReloadServer(t, b)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return b.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestReloadBroadcasterStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewReloadBroadcaster(logging.NewNopLogger())

	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		b.Notify(MessageRebuild)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked after the broadcaster stopped")
	}
}

type countingNotifier struct{ got []string }

func (c *countingNotifier) Notify(message string) { c.got = append(c.got, message) }

func TestNotifiersFanOut(t *testing.T) {
	a, b := &countingNotifier{}, &countingNotifier{}
	Notifiers{a, nil, b}.Notify(MessageRebuild)
	assert.Equal(t, []string{MessageRebuild}, a.got)
	assert.Equal(t, []string{MessageRebuild}, b.got)
}
