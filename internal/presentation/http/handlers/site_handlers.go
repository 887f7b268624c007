package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// SiteHandlers serves the built site from the output directory.
type SiteHandlers struct {
	root string
}

func NewSiteHandlers(root string) *SiteHandlers {
	return &SiteHandlers{root: root}
}

// Serve resolves a request path the way the published site expects:
// the file itself, then <path>.html, then <path>/index.html. Anything else
// gets 404.html when the site has one.
func (h *SiteHandlers) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
		return
	}

	clean := path.Clean("/" + c.Request.URL.Path)
	for _, candidate := range candidates(clean) {
		file := filepath.Join(h.root, filepath.FromSlash(candidate))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
	}

	notFound := filepath.Join(h.root, "404.html")
	if data, err := os.ReadFile(notFound); err == nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", data)
		return
	}
	c.String(http.StatusNotFound, "404 page not found")
}

func candidates(p string) []string {
	if p == "/" {
		return []string{"/index.html"}
	}
	trimmed := strings.TrimSuffix(p, "/")
	return []string{p, trimmed + ".html", trimmed + "/index.html"}
}
