package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/quartzgo/internal/application/container"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/persistence/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	root := t.TempDir()
	contentDir := filepath.Join(root, "content")
	files := map[string]string{
		"index.md":        "---\ntitle: Home\n---\nWelcome",
		"posts/2024/a.md": "---\ntitle: A\ntags: [go]\n---\nAlpha",
		"static/logo.svg": "<svg></svg>",
	}
	for name, body := range files {
		path := filepath.Join(contentDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	c, err := container.NewContainer(container.Options{
		ContentDir:  contentDir,
		OutputDir:   filepath.Join(root, "public"),
		Concurrency: 2,
		LiveReload:  true,
		Database:    database.Options{SQLitePath: filepath.Join(root, "index.db")},
	}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestLogoFragment(t *testing.T) {
	r := SetupRoutes(newTestContainer(t))

	w := do(r, http.MethodGet, "/api/v1/fragments/logo?slug=posts/2024/a&class=extra")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<a href="../.." class="extra page-title"><i class="logo"></i></a>`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = do(r, http.MethodGet, "/api/v1/fragments/logo?slug=index")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="."`)

	w = do(r, http.MethodGet, "/api/v1/fragments/logo")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"slug"`)

	w = do(r, http.MethodGet, "/api/v1/fragments/Nope?slug=index")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoFragmentCache(t *testing.T) {
	c := newTestContainer(t)
	r := SetupRoutes(c)

	target := "/api/v1/fragments/logo?slug=posts/a"
	w := do(r, http.MethodGet, target)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = do(r, http.MethodGet, target)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, `<a href=".." class="page-title"><i class="logo"></i></a>`, w.Body.String())

	_, err := c.BuildService.Build(context.Background())
	require.NoError(t, err)

	w = do(r, http.MethodGet, target)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestLogoFragmentCacheKeepsContextsApart(t *testing.T) {
	r := SetupRoutes(newTestContainer(t))

	w := do(r, http.MethodGet, "/api/v1/fragments/logo?slug=a%7Cb")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<a href="." class="page-title"><i class="logo"></i></a>`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/fragments/logo?slug=a&class=b%7C")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, `<a href="." class="b| page-title"><i class="logo"></i></a>`, w.Body.String())
}

func TestBuildThenBrowse(t *testing.T) {
	c := newTestContainer(t)
	r := SetupRoutes(c)

	w := do(r, http.MethodGet, "/api/v1/styles")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/v1/build")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report struct {
		BuildID    string `json:"buildId"`
		Pages      int    `json:"pages"`
		Stylesheet string `json:"stylesheet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Pages)

	w = do(r, http.MethodGet, "/api/v1/styles")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ":root {")
	assert.Equal(t, report.Stylesheet, w.Header().Get("X-Stylesheet-Path"))

	etag := w.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/styles", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = do(r, http.MethodGet, "/api/v1/pages")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = do(r, http.MethodGet, "/api/v1/pages/posts/2024/a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"A"`)
	assert.Contains(t, w.Body.String(), `"content":"Alpha"`)

	w = do(r, http.MethodGet, "/api/v1/pages/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Home"`)

	w = do(r, http.MethodGet, "/api/v1/pages/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/v1/search?q=alpha")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), `"slug":"posts/2024/a"`)
	assert.Contains(t, w.Body.String(), `"snippet":"Alpha"`)

	w = do(r, http.MethodGet, "/api/v1/search?q=")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/builds/latest")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), report.BuildID)

	w = do(r, http.MethodGet, "/posts/2024/a")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="../.." class="page-title">`)
	assert.Contains(t, w.Body.String(), "new WebSocket")

	w = do(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<a href="." class="page-title">`)

	w = do(r, http.MethodGet, "/static/logo.svg")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReloadSocket(t *testing.T) {
	c := newTestContainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Reload.Run(ctx)

	srv := httptest.NewServer(SetupRoutes(c))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/reload", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return c.Reload.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = c.BuildService.Build(ctx)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "rebuild", string(msg))
}

func TestReloadSocketRejectsForeignOrigin(t *testing.T) {
	c := newTestContainer(t)
	srv := httptest.NewServer(SetupRoutes(c))
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/reload", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
