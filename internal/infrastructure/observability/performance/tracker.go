package performance

import (
	"sync"
	"time"
)

// DefaultSlowThreshold flags a phase worth a warning.
const DefaultSlowThreshold = 2 * time.Second

// Tracker collects the markers of one run, in start order.
type Tracker struct {
	markers   []*Marker
	threshold time.Duration
	mu        sync.Mutex
}

// NewTracker creates a tracker. A non-positive threshold uses
// DefaultSlowThreshold.
func NewTracker(threshold time.Duration) *Tracker {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return &Tracker{threshold: threshold}
}

// StartOperation begins timing a phase.
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Success:   true,
	}

	t.mu.Lock()
	t.markers = append(t.markers, marker)
	t.mu.Unlock()
	return marker
}

// Track times fn as one phase and returns its error.
func (t *Tracker) Track(operation string, fn func() error) error {
	marker := t.StartOperation(operation)
	err := fn()
	marker.SetError(err)
	marker.Complete()
	return err
}

// Durations maps every completed phase to its duration.
func (t *Tracker) Durations() map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]time.Duration, len(t.markers))
	for _, m := range t.markers {
		if m.Completed {
			out[m.Operation] += m.Duration
		}
	}
	return out
}

// Slow returns completed phases that ran longer than the threshold.
func (t *Tracker) Slow() []*Marker {
	t.mu.Lock()
	defer t.mu.Unlock()

	var slow []*Marker
	for _, m := range t.markers {
		if m.Completed && m.Duration > t.threshold {
			slow = append(slow, m)
		}
	}
	return slow
}

// Markers returns a copy of every marker in start order.
func (t *Tracker) Markers() []*Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Marker(nil), t.markers...)
}
