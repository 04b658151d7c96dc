package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/eejihoon/scrappers/dom"
)

// liveNode binds dom.Node to a live browser element. Lookups hit the real
// page over CDP, so the same extraction code that runs on static fixtures
// in tests runs against the rendered page here.
//
// All accessors are best-effort: a detached or stale element yields zero
// values rather than errors, mirroring the static binding's behavior on
// absent content.
type liveNode struct {
	el *rod.Element
}

func newLiveNode(el *rod.Element) dom.Node {
	if el == nil {
		return nil
	}
	return &liveNode{el: el}
}

func (n *liveNode) ID() string {
	desc, err := n.el.Describe(0, false)
	if err != nil || desc == nil {
		return string(n.el.Object.ObjectID)
	}
	return nodeIdentity(desc)
}

// nodeIdentity keys a node by its backend node ID, which survives repeated
// CDP resolutions of the same DOM node. Remote object IDs do not: every
// resolution mints a fresh one, so two lookups landing on one ancestor
// would never compare equal and the card locator would count it twice.
func nodeIdentity(node *proto.DOMNode) string {
	return "n" + strconv.Itoa(int(node.BackendNodeID))
}

func (n *liveNode) Tag() string {
	res, err := n.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func (n *liveNode) Text() string {
	text, err := n.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (n *liveNode) Attr(name string) string {
	v, err := n.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (n *liveNode) Parent() dom.Node {
	parent, err := n.el.Parent()
	if err != nil || parent == nil {
		return nil
	}
	return newLiveNode(parent)
}

func (n *liveNode) Find(selector string) []dom.Node {
	els, err := n.el.Elements(selector)
	if err != nil {
		return nil
	}
	return wrapElements(els)
}

func (n *liveNode) FindByText(substr string) []dom.Node {
	xp := fmt.Sprintf(`.//*[contains(text(), %s)]`, xpathLiteral(substr))
	els, err := n.el.ElementsX(xp)
	if err != nil {
		return nil
	}
	return wrapElements(els)
}

func (n *liveNode) BoundingBox() (dom.Rect, bool) {
	shape, err := n.el.Shape()
	if err != nil {
		return dom.Rect{}, false
	}
	box := shape.Box()
	if box == nil {
		return dom.Rect{}, false
	}
	return dom.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, true
}

func (n *liveNode) NaturalSize() (int, int, bool) {
	res, err := n.el.Eval(`() => ({ w: this.naturalWidth || 0, h: this.naturalHeight || 0 })`)
	if err != nil {
		return 0, 0, false
	}
	w := res.Value.Get("w").Int()
	h := res.Value.Get("h").Int()
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func wrapElements(els rod.Elements) []dom.Node {
	nodes := make([]dom.Node, 0, len(els))
	for _, el := range els {
		nodes = append(nodes, newLiveNode(el))
	}
	return nodes
}

// xpathLiteral quotes s as an XPath string literal. XPath 1.0 has no
// escape sequences, so strings carrying both quote kinds need concat().
func xpathLiteral(s string) string {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`
	case !strings.Contains(s, "'"):
		return "'" + s + "'"
	default:
		parts := strings.Split(s, `"`)
		quoted := make([]string, 0, len(parts)*2)
		for i, p := range parts {
			if i > 0 {
				quoted = append(quoted, `'"'`)
			}
			if p != "" {
				quoted = append(quoted, `"`+p+`"`)
			}
		}
		return "concat(" + strings.Join(quoted, ", ") + ")"
	}
}
