// Package security provides identifier generation.
package security

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// GenerateULID generates a new ULID string. ULIDs sort by creation time,
// which keeps build records ordered without a separate sequence.
func GenerateULID() string {
	return ulid.Make().String()
}

// ULIDTime returns the timestamp encoded in id.
func ULIDTime(id string) (time.Time, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ULID %q: %w", id, err)
	}
	return ulid.Time(parsed.Time()).UTC(), nil
}
