// Package site provides the site-wide configuration entities shared by every
// page render.
package site

import (
	"fmt"
	"strings"
)

// Config is the site-wide configuration loaded once per build.
type Config struct {
	PageTitle      string   `json:"pageTitle" toml:"page_title"`
	BaseURL        string   `json:"baseUrl" toml:"base_url"`
	Locale         string   `json:"locale" toml:"locale"`
	IgnorePatterns []string `json:"ignorePatterns" toml:"ignore_patterns"`
	Theme          Theme    `json:"theme" toml:"theme"`
}

// DefaultConfig returns the configuration used when a site ships none.
func DefaultConfig() *Config {
	return &Config{
		PageTitle:      "Quartz",
		Locale:         "en-US",
		IgnorePatterns: []string{"private", "templates", ".obsidian"},
		Theme:          DefaultTheme(),
	}
}

// Validate checks the configuration for values that would break every page.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PageTitle) == "" {
		return fmt.Errorf("pageTitle is required")
	}
	if strings.Contains(c.BaseURL, "://") {
		return fmt.Errorf("baseUrl must not include a protocol: %q", c.BaseURL)
	}
	return c.Theme.Validate()
}
