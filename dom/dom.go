// Package dom abstracts the document tree the extraction core walks.
//
// The extraction logic (card location, field extraction, image scoring)
// only ever needs a small read-only capability set: text content,
// attributes, the ancestor chain, and descendant lookup. Both the live
// browser page and parsed HTML archives implement Node, so the same
// extraction code runs against a real Chrome session and against static
// fixtures in tests.
package dom

// Rect is an element's position and size in viewport coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Node is a read-only handle to one element of a document tree.
type Node interface {
	// ID returns a stable identity for this element within its document,
	// used to deduplicate elements reached through different paths.
	ID() string

	// Tag returns the lower-case element name ("div", "img", ...).
	Tag() string

	// Text returns the element's full rendered text content.
	Text() string

	// Attr returns the named attribute's value, or "" when absent.
	Attr(name string) string

	// Parent returns the parent element, or nil at the document root.
	Parent() Node

	// Find returns all descendants matching the CSS selector.
	Find(selector string) []Node

	// FindByText returns the leaf-most elements whose own text contains
	// substr. Used to anchor marker-based searches.
	FindByText(substr string) []Node

	// BoundingBox returns the element's viewport geometry. ok is false
	// when geometry is unavailable (static documents, detached nodes).
	BoundingBox() (r Rect, ok bool)

	// NaturalSize returns an image element's intrinsic pixel dimensions.
	// ok is false for non-images and unloaded images.
	NaturalSize() (width, height int, ok bool)
}

// Images returns every <img> descendant of n.
func Images(n Node) []Node { return n.Find("img") }

// Links returns every <a> descendant of n.
func Links(n Node) []Node { return n.Find("a") }
