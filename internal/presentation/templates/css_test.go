package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinClassNames(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"base only", []string{"page-title"}, "page-title"},
		{"display class first", []string{"extra", "page-title"}, "extra page-title"},
		{"empty tokens dropped", []string{"", "page-title", ""}, "page-title"},
		{"duplicates removed", []string{"page-title", "extra", "page-title"}, "page-title extra"},
		{"split on whitespace", []string{" a  b ", "b c"}, "a b c"},
		{"nothing", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinClassNames(tt.tokens...))
		})
	}
}
