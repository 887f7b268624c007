package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeCSS(t *testing.T) {
	css := DefaultTheme().CSS()

	assert.Contains(t, css, ":root {\n")
	assert.Contains(t, css, "  --tertiary: #84a59d;\n")
	assert.Contains(t, css, `:root[saved-theme="dark"] {`)
	assert.Equal(t, css, DefaultTheme().CSS(), "output must be stable")
}

func TestThemeDeclares(t *testing.T) {
	theme := DefaultTheme()

	assert.True(t, theme.Declares("--tertiary"))
	assert.True(t, theme.Declares("secondary"))
	assert.False(t, theme.Declares("--quaternary"))

	theme.LightMode.Tertiary = ""
	assert.False(t, theme.Declares("--tertiary"))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.PageTitle = " "
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BaseURL = "https://example.com"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Theme.DarkMode.Gray = ""
	assert.ErrorContains(t, cfg.Validate(), "theme.darkMode.gray is empty")
}
