// Package stores provides in-memory cache stores for the preview server.
package stores

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/messaging"
)

// DefaultFragmentTTL bounds how long a rendered fragment is served from cache.
const DefaultFragmentTTL = time.Hour

// FragmentKey identifies one rendering of a component.
type FragmentKey struct {
	Component    string
	Slug         string
	DisplayClass []string
	Title        string
	Tags         []string
}

// String encodes the key with every field and list item length-prefixed, so
// distinct keys never collide whatever bytes the fields hold. Order of classes
// and tags is significant because it changes the markup.
func (k FragmentKey) String() string {
	var b strings.Builder
	for _, field := range []string{k.Component, k.Slug, k.Title} {
		writeField(&b, field)
	}
	for _, list := range [][]string{k.DisplayClass, k.Tags} {
		b.WriteString(strconv.Itoa(len(list)))
		b.WriteByte('#')
		for _, item := range list {
			writeField(&b, item)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// HTMLChunk is one cached fragment.
type HTMLChunk struct {
	HTML        string
	Component   string
	LastUpdated time.Time
}

// FragmentsStore caches rendered component fragments. Every rebuild empties
// it, so it can be handed to the build pipeline as a notifier.
type FragmentsStore struct {
	chunks map[string]*HTMLChunk
	ttl    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
}

var _ messaging.Notifier = (*FragmentsStore)(nil)

// NewFragmentsStore creates an empty store. A non-positive ttl uses
// DefaultFragmentTTL.
func NewFragmentsStore(ttl time.Duration) *FragmentsStore {
	if ttl <= 0 {
		ttl = DefaultFragmentTTL
	}
	return &FragmentsStore{
		chunks: make(map[string]*HTMLChunk),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetHTMLChunk returns a live chunk for the key.
func (fs *FragmentsStore) GetHTMLChunk(key FragmentKey) (*HTMLChunk, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	chunk, exists := fs.chunks[key.String()]
	if !exists || fs.expired(chunk) {
		return nil, false
	}
	return chunk, true
}

// SetHTMLChunk stores the markup for the key.
func (fs *FragmentsStore) SetHTMLChunk(key FragmentKey, html string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.chunks[key.String()] = &HTMLChunk{
		HTML:        html,
		Component:   key.Component,
		LastUpdated: fs.now().UTC(),
	}
}

// InvalidateComponent drops every cached rendering of one component.
func (fs *FragmentsStore) InvalidateComponent(component string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for key, chunk := range fs.chunks {
		if chunk.Component == component {
			delete(fs.chunks, key)
		}
	}
}

// InvalidateAll clears the store.
func (fs *FragmentsStore) InvalidateAll() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.chunks = make(map[string]*HTMLChunk)
}

// Notify clears the store when a rebuild finishes.
func (fs *FragmentsStore) Notify(message string) {
	if message == messaging.MessageRebuild {
		fs.InvalidateAll()
	}
}

// PurgeExpiredChunks removes expired chunks and reports how many went.
func (fs *FragmentsStore) PurgeExpiredChunks() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	purged := 0
	for key, chunk := range fs.chunks {
		if fs.expired(chunk) {
			delete(fs.chunks, key)
			purged++
		}
	}
	return purged
}

// Summary reports cache status for debugging.
func (fs *FragmentsStore) Summary() map[string]any {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	active, expired := 0, 0
	for _, chunk := range fs.chunks {
		if fs.expired(chunk) {
			expired++
		} else {
			active++
		}
	}
	return map[string]any{
		"totalChunks":   len(fs.chunks),
		"activeChunks":  active,
		"expiredChunks": expired,
		"ttl":           fs.ttl.String(),
	}
}

func (fs *FragmentsStore) expired(chunk *HTMLChunk) bool {
	return fs.now().Sub(chunk.LastUpdated) > fs.ttl
}
