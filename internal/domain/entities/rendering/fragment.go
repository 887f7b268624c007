package rendering

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fragment is a rendered markup tree handed to the page assembly. Components
// build it fresh on every call and never touch it afterwards.
type Fragment struct {
	root *html.Node
}

// NewFragment wraps an element tree.
func NewFragment(root *html.Node) *Fragment {
	return &Fragment{root: root}
}

// Root returns the top element of the fragment.
func (f *Fragment) Root() *html.Node {
	return f.root
}

// Attr returns the value of the root element's attribute key.
func (f *Fragment) Attr(key string) (string, bool) {
	if f == nil || f.root == nil {
		return "", false
	}
	for _, a := range f.root.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Render serialises the fragment as HTML.
func (f *Fragment) Render() (string, error) {
	if f == nil || f.root == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, f.root); err != nil {
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return buf.String(), nil
}

// String renders the fragment, returning an HTML comment on failure.
func (f *Fragment) String() string {
	out, err := f.Render()
	if err != nil {
		return "<!-- error rendering fragment -->"
	}
	return out
}

// Element builds an element node and appends children in order.
func Element(tag atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     attrs,
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Text builds a text node.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
