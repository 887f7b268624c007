// Package services provides application services for building and serving the site
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/components"
)

var varReference = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)`)

// Stylesheet is the aggregated CSS for a build.
type Stylesheet struct {
	Content string
	Hash    string
}

// Path returns the content-hashed file name the stylesheet is published as.
func (s *Stylesheet) Path() string {
	return "index." + s.Hash + ".css"
}

type styleBlock struct {
	component string
	css       string
	sheet     *css.Stylesheet
}

// StyleService collects the static stylesheet of every component type once,
// no matter how many pages mount it, and bundles them behind the theme
// variables.
type StyleService struct {
	mu     sync.RWMutex
	order  []string
	blocks map[string]*styleBlock
	logger *logging.ChanneledLogger
}

// NewStyleService creates an empty style aggregator.
func NewStyleService(logger *logging.ChanneledLogger) *StyleService {
	return &StyleService{
		blocks: make(map[string]*styleBlock),
		logger: logger,
	}
}

// Register records the component's stylesheet. Registering the same component
// name again is a no-op. CSS that fails to parse is rejected.
func (s *StyleService) Register(c components.Component) error {
	name := c.Name()

	s.mu.RLock()
	_, exists := s.blocks[name]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	raw := strings.TrimSpace(c.CSS())
	var sheet *css.Stylesheet
	if raw != "" {
		parsed, err := parser.Parse(raw)
		if err != nil {
			return fmt.Errorf("component %s: invalid stylesheet: %w", name, err)
		}
		sheet = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.blocks[name]; exists {
		return nil
	}
	s.blocks[name] = &styleBlock{component: name, css: raw, sheet: sheet}
	s.order = append(s.order, name)

	s.logger.Style().Debug("Registered component stylesheet", "component", name, "bytes", len(raw))
	return nil
}

// Registered returns the component names in registration order.
func (s *StyleService) Registered() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Bundle produces the stylesheet: theme variables first, then each
// component's CSS in registration order. Every var(--x) a component uses must
// be declared by the theme or by the component itself.
func (s *StyleService) Bundle(theme site.Theme) (*Stylesheet, error) {
	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	b.WriteString(theme.CSS())

	for _, name := range s.order {
		block := s.blocks[name]
		if missing := undeclaredVariables(block.sheet, theme); len(missing) > 0 {
			return nil, fmt.Errorf("component %s references undeclared theme variables: %s",
				name, strings.Join(missing, ", "))
		}
		if block.css == "" {
			continue
		}
		fmt.Fprintf(&b, "\n/* %s */\n%s\n", name, block.css)
	}

	content := b.String()
	sum := sha256.Sum256([]byte(content))

	sheet := &Stylesheet{Content: content, Hash: hex.EncodeToString(sum[:8])}
	s.logger.Style().Info("Stylesheet bundled",
		"components", len(s.order),
		"bytes", len(content),
		"path", sheet.Path(),
	)
	return sheet, nil
}

func undeclaredVariables(sheet *css.Stylesheet, theme site.Theme) []string {
	if sheet == nil {
		return nil
	}

	local := map[string]bool{}
	referenced := map[string]bool{}
	var visit func(rules []*css.Rule)
	visit = func(rules []*css.Rule) {
		for _, rule := range rules {
			for _, decl := range rule.Declarations {
				if strings.HasPrefix(decl.Property, "--") {
					local[strings.TrimPrefix(decl.Property, "--")] = true
				}
				for _, m := range varReference.FindAllStringSubmatch(decl.Value, -1) {
					referenced[m[1]] = true
				}
			}
			visit(rule.Rules)
		}
	}
	visit(sheet.Rules)

	var missing []string
	for name := range referenced {
		if !local[name] && !theme.Declares(name) {
			missing = append(missing, "--"+name)
		}
	}
	sort.Strings(missing)
	return missing
}
