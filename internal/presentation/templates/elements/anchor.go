// Package elements builds the HTML element nodes components are made of
package elements

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/AtRiskMedia/quartzgo/internal/domain/entities/rendering"
)

// Anchor builds an <a> element. An empty href falls back to "#"; the class
// attribute is omitted when class is empty.
func Anchor(href, class string, children ...*html.Node) *html.Node {
	if href == "" {
		href = "#"
	}

	attrs := []html.Attribute{{Key: "href", Val: href}}
	if class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: class})
	}

	return rendering.Element(atom.A, attrs, children...)
}
