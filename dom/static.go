package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// staticNode binds Node to a parsed HTML document. It backs extraction
// from archived page sources and test fixtures; geometry-dependent
// capabilities report unavailable.
type staticNode struct {
	doc *goquery.Document
	sel *goquery.Selection
}

// Parse reads an HTML document and returns its root Node.
func Parse(r io.Reader) (Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &staticNode{doc: doc, sel: doc.Selection}, nil
}

func (n *staticNode) ID() string {
	if len(n.sel.Nodes) == 0 {
		return ""
	}
	return fmt.Sprintf("%p", n.sel.Nodes[0])
}

func (n *staticNode) Tag() string {
	if len(n.sel.Nodes) == 0 || n.sel.Nodes[0].Type != html.ElementNode {
		return ""
	}
	return n.sel.Nodes[0].Data
}

func (n *staticNode) Text() string {
	return n.sel.Text()
}

func (n *staticNode) Attr(name string) string {
	v, _ := n.sel.Attr(name)
	return v
}

func (n *staticNode) Parent() Node {
	p := n.sel.Parent()
	if p.Length() == 0 {
		return nil
	}
	if len(p.Nodes) > 0 && p.Nodes[0].Type == html.DocumentNode {
		return nil
	}
	return &staticNode{doc: n.doc, sel: p.First()}
}

func (n *staticNode) Find(selector string) []Node {
	var out []Node
	n.sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &staticNode{doc: n.doc, sel: s})
	})
	return out
}

// FindByText walks the subtree and collects elements that carry substr in
// one of their direct text children, i.e. the leaf-most elements where the
// marker actually appears rather than every ancestor containing it.
func (n *staticNode) FindByText(substr string) []Node {
	var out []Node
	for _, root := range n.sel.Nodes {
		var walk func(*html.Node)
		walk = func(node *html.Node) {
			if node.Type == html.ElementNode && hasDirectText(node, substr) {
				out = append(out, &staticNode{doc: n.doc, sel: n.doc.FindNodes(node)})
			}
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
	}
	return out
}

func (n *staticNode) BoundingBox() (Rect, bool) {
	return Rect{}, false
}

func (n *staticNode) NaturalSize() (int, int, bool) {
	return 0, 0, false
}

func hasDirectText(node *html.Node, substr string) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.Contains(c.Data, substr) {
			return true
		}
	}
	return false
}
