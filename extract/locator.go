package extract

import (
	"regexp"
	"strings"

	"github.com/eejihoon/scrappers/dom"
)

// Marker substrings anchoring the card search: the "Library ID" label in
// both page languages. Every rendered ad card carries exactly one.
const (
	markerKorean  = "라이브러리 ID:"
	markerEnglish = "Library ID:"
)

// maxAncestorDepth bounds the upward walk from a marker element to the
// card boundary. Cards sit 2-4 levels above the label in observed markup.
const maxAncestorDepth = 5

var yearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// LocateCards finds the set of elements that each represent one complete
// ad card. The document has no stable structural markers for "one ad", so
// boundaries are inferred: from every leaf element carrying a Library ID
// label, walk up until an ancestor's text also contains a year or platform
// token. Markers whose walk never qualifies are dropped silently; two
// markers resolving to the same ancestor yield one card.
func LocateCards(doc dom.Node) []dom.Node {
	seen := make(map[string]bool)
	var cards []dom.Node

	for _, marker := range []string{markerKorean, markerEnglish} {
		for _, el := range doc.FindByText(marker) {
			card := cardBoundary(el)
			if card == nil {
				continue
			}
			if id := card.ID(); !seen[id] {
				seen[id] = true
				cards = append(cards, card)
			}
		}
	}
	return cards
}

// cardBoundary walks the ancestor chain of a marker element and returns
// the first ancestor that looks like a complete card, or nil when none
// qualifies within maxAncestorDepth.
func cardBoundary(marker dom.Node) dom.Node {
	node := marker
	for i := 0; i < maxAncestorDepth; i++ {
		if node.Tag() == "body" {
			break
		}
		parent := node.Parent()
		if parent == nil {
			break
		}
		if isCompleteCard(parent) {
			return parent
		}
		node = parent
	}
	return nil
}

// isCompleteCard reports whether an element's text content contains both a
// Library ID label and at least one of a 4-digit year or a platform token.
func isCompleteCard(n dom.Node) bool {
	text := n.Text()

	hasMarker := strings.Contains(text, markerKorean) || strings.Contains(text, markerEnglish)
	if !hasMarker {
		return false
	}

	hasYear := yearToken.MatchString(text)
	hasPlatform := strings.Contains(text, "Facebook") ||
		strings.Contains(text, "Instagram") ||
		strings.Contains(text, "플랫폼")

	return hasYear || hasPlatform
}
