package services

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/site"
	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/quartzgo/internal/presentation/templates/components"
)

type stubComponent struct {
	name string
	css  string
}

func (s stubComponent) Name() string { return s.name }
func (s stubComponent) CSS() string  { return s.css }
func (s stubComponent) Render(*rendering.RenderContext) (*rendering.Fragment, error) {
	return rendering.NewFragment(nil), nil
}

func TestStyleServiceEmitsLogoOnce(t *testing.T) {
	svc := NewStyleService(logging.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Register(components.NewLogo()))
		}()
	}
	wg.Wait()

	sheet, err := svc.Bundle(site.DefaultTheme())
	require.NoError(t, err)

	assert.Equal(t, []string{"Logo"}, svc.Registered())
	assert.Equal(t, 1, strings.Count(sheet.Content, ".logo {"))
	assert.True(t, strings.HasPrefix(sheet.Content, ":root {"))
	assert.Contains(t, sheet.Content, "--tertiary: #84a59d;")
}

func TestStyleServiceBundleStable(t *testing.T) {
	build := func() *Stylesheet {
		svc := NewStyleService(logging.NewNopLogger())
		for _, c := range append(components.Header(), components.BeforeBody()...) {
			require.NoError(t, svc.Register(c))
		}
		sheet, err := svc.Bundle(site.DefaultTheme())
		require.NoError(t, err)
		return sheet
	}

	first, second := build(), build()
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Path(), second.Path())
	assert.Regexp(t, `^index\.[0-9a-f]{16}\.css$`, first.Path())
}

func TestStyleServiceOrder(t *testing.T) {
	svc := NewStyleService(logging.NewNopLogger())
	require.NoError(t, svc.Register(stubComponent{name: "B", css: ".b { color: red; }"}))
	require.NoError(t, svc.Register(stubComponent{name: "A", css: ".a { color: blue; }"}))
	require.NoError(t, svc.Register(stubComponent{name: "Empty"}))

	sheet, err := svc.Bundle(site.DefaultTheme())
	require.NoError(t, err)
	assert.Less(t, strings.Index(sheet.Content, ".b {"), strings.Index(sheet.Content, ".a {"))
	assert.NotContains(t, sheet.Content, "/* Empty */")
}

func TestStyleServiceUndeclaredVariable(t *testing.T) {
	svc := NewStyleService(logging.NewNopLogger())
	require.NoError(t, svc.Register(stubComponent{name: "Odd", css: ".odd { color: var(--quaternary); }"}))

	_, err := svc.Bundle(site.DefaultTheme())
	assert.ErrorContains(t, err, "component Odd references undeclared theme variables: --quaternary")
}

func TestStyleServiceLocalVariable(t *testing.T) {
	svc := NewStyleService(logging.NewNopLogger())
	require.NoError(t, svc.Register(stubComponent{
		name: "Local",
		css:  ".x { --gap: 4px; margin: var(--gap); color: var(--secondary); }",
	}))

	_, err := svc.Bundle(site.DefaultTheme())
	assert.NoError(t, err)
}

func TestStyleServiceMissingThemeVariable(t *testing.T) {
	svc := NewStyleService(logging.NewNopLogger())
	require.NoError(t, svc.Register(components.NewLogo()))

	theme := site.DefaultTheme()
	theme.LightMode.Tertiary = ""
	_, err := svc.Bundle(theme)
	assert.ErrorContains(t, err, "invalid theme")
}
