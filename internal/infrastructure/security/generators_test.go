package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateULID(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := GenerateULID()
	assert.Len(t, id, 26)

	ts, err := ULIDTime(id)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
}

func TestGenerateULIDOrdered(t *testing.T) {
	first := GenerateULID()
	time.Sleep(2 * time.Millisecond)
	second := GenerateULID()
	assert.Less(t, first, second)
}

func TestULIDTimeInvalid(t *testing.T) {
	_, err := ULIDTime("not-a-ulid")
	assert.Error(t, err)
}
