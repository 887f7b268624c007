package site

import (
	"fmt"
	"sort"
	"strings"
)

// Colors is one palette of the theme. Every field becomes a CSS custom
// property of the same name (Tertiary -> --tertiary).
type Colors struct {
	Light         string `json:"light" toml:"light"`
	LightGray     string `json:"lightgray" toml:"lightgray"`
	Gray          string `json:"gray" toml:"gray"`
	DarkGray      string `json:"darkgray" toml:"darkgray"`
	Dark          string `json:"dark" toml:"dark"`
	Secondary     string `json:"secondary" toml:"secondary"`
	Tertiary      string `json:"tertiary" toml:"tertiary"`
	Highlight     string `json:"highlight" toml:"highlight"`
	TextHighlight string `json:"textHighlight" toml:"text_highlight"`
}

// Theme holds the light and dark palettes.
type Theme struct {
	LightMode Colors `json:"lightMode" toml:"light_mode"`
	DarkMode  Colors `json:"darkMode" toml:"dark_mode"`
}

// DefaultTheme returns the stock palettes.
func DefaultTheme() Theme {
	return Theme{
		LightMode: Colors{
			Light:         "#faf8f8",
			LightGray:     "#e5e5e5",
			Gray:          "#b8b8b8",
			DarkGray:      "#4e4e4e",
			Dark:          "#2b2b2b",
			Secondary:     "#284b63",
			Tertiary:      "#84a59d",
			Highlight:     "rgba(143, 159, 169, 0.15)",
			TextHighlight: "#fff23688",
		},
		DarkMode: Colors{
			Light:         "#161618",
			LightGray:     "#393639",
			Gray:          "#646464",
			DarkGray:      "#d4d4d4",
			Dark:          "#ebebec",
			Secondary:     "#7b97aa",
			Tertiary:      "#84a59d",
			Highlight:     "rgba(143, 159, 169, 0.15)",
			TextHighlight: "#b3aa0288",
		},
	}
}

// Variables returns the palette as CSS custom properties keyed by name,
// without the leading dashes.
func (c Colors) Variables() map[string]string {
	return map[string]string{
		"light":         c.Light,
		"lightgray":     c.LightGray,
		"gray":          c.Gray,
		"darkgray":      c.DarkGray,
		"dark":          c.Dark,
		"secondary":     c.Secondary,
		"tertiary":      c.Tertiary,
		"highlight":     c.Highlight,
		"textHighlight": c.TextHighlight,
	}
}

// Declares reports whether the theme defines the custom property name
// (with or without the leading "--").
func (t Theme) Declares(name string) bool {
	value, ok := t.LightMode.Variables()[strings.TrimPrefix(name, "--")]
	return ok && value != ""
}

// Validate requires every variable to be set in both palettes.
func (t Theme) Validate() error {
	for mode, colors := range map[string]Colors{"lightMode": t.LightMode, "darkMode": t.DarkMode} {
		for name, value := range colors.Variables() {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("theme.%s.%s is empty", mode, name)
			}
		}
	}
	return nil
}

// CSS renders the palettes as :root custom property blocks. The dark palette
// applies when the document carries saved-theme="dark".
func (t Theme) CSS() string {
	var b strings.Builder
	writeVariables(&b, ":root", t.LightMode)
	writeVariables(&b, `:root[saved-theme="dark"]`, t.DarkMode)
	return b.String()
}

func writeVariables(b *strings.Builder, selector string, c Colors) {
	vars := c.Variables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, name := range names {
		fmt.Fprintf(b, "  --%s: %s;\n", name, vars[name])
	}
	b.WriteString("}\n")
}
