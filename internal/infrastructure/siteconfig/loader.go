// Package siteconfig handles loading the site configuration file.
package siteconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
)

// Candidates are the file names looked up in the site directory, in order.
var Candidates = []string{"quartz.json", "quartz.toml"}

// Load reads the site configuration at path. An empty path searches dir for
// one of Candidates; when none exists the defaults are returned. Values
// missing from the file keep their defaults.
func Load(path, dir string) (*site.Config, error) {
	if path == "" {
		path = find(dir)
		if path == "" {
			return site.DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read site config file: %w", err)
	}

	cfg := site.DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse site config json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse site config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported site config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config %s: %w", path, err)
	}
	return cfg, nil
}

func find(dir string) string {
	for _, name := range Candidates {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
