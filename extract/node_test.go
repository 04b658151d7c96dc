package extract

import (
	"fmt"
	"strings"

	"github.com/eejihoon/scrappers/dom"
)

// fakeNode is a synthetic tree node for exercising the extraction core
// with controlled geometry, which static HTML parsing cannot provide.
type fakeNode struct {
	tag      string
	text     string
	attrs    map[string]string
	parent   *fakeNode
	children []*fakeNode

	natW, natH int
	hasNatural bool
	box        dom.Rect
	hasBox     bool
}

func newFakeNode(tag, text string, attrs map[string]string) *fakeNode {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return &fakeNode{tag: tag, text: text, attrs: attrs}
}

func (n *fakeNode) add(children ...*fakeNode) *fakeNode {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *fakeNode) ID() string  { return fmt.Sprintf("%p", n) }
func (n *fakeNode) Tag() string { return n.tag }

func (n *fakeNode) Text() string {
	parts := []string{n.text}
	for _, c := range n.children {
		parts = append(parts, c.Text())
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (n *fakeNode) Attr(name string) string { return n.attrs[name] }

func (n *fakeNode) Parent() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Find supports bare tag selectors, which is all the extraction core uses
// on card subtrees.
func (n *fakeNode) Find(selector string) []dom.Node {
	var out []dom.Node
	for _, c := range n.children {
		if c.tag == selector {
			out = append(out, c)
		}
		out = append(out, c.Find(selector)...)
	}
	return out
}

func (n *fakeNode) FindByText(substr string) []dom.Node {
	var out []dom.Node
	if strings.Contains(n.text, substr) {
		out = append(out, n)
	}
	for _, c := range n.children {
		out = append(out, c.FindByText(substr)...)
	}
	return out
}

func (n *fakeNode) BoundingBox() (dom.Rect, bool) { return n.box, n.hasBox }

func (n *fakeNode) NaturalSize() (int, int, bool) { return n.natW, n.natH, n.hasNatural }

func (n *fakeNode) withBox(y float64) *fakeNode {
	n.box = dom.Rect{Y: y}
	n.hasBox = true
	return n
}

func (n *fakeNode) withNatural(w, h int) *fakeNode {
	n.natW, n.natH = w, h
	n.hasNatural = true
	return n
}
