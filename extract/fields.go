package extract

import (
	"strings"

	"github.com/eejihoon/scrappers/dom"
)

// Localized button/indicator labels.
var (
	learnMoreLabels = []string{"Learn More", "자세히 알아보기", "Shop Now"}

	multipleVersionsMarkers = []string{"여러 버전", "multiple versions"}

	adDetailsLabels = []string{"See ad details", "광고 상세 정보 보기"}
)

// LearnMoreURL extracts the outbound landing-page link from a card.
// It first anchors on the localized button label and walks up to the
// enclosing <a>; failing that it scans every link in the card for one
// whose text carries a known label. Returns "" when the card has no
// outbound link.
func LearnMoreURL(card dom.Node) string {
	for _, label := range learnMoreLabels {
		for _, el := range card.FindByText(label) {
			if href := enclosingHref(el); href != "" {
				return href
			}
		}
	}

	for _, link := range dom.Links(card) {
		href := link.Attr("href")
		if href == "" {
			continue
		}
		text := link.Text()
		for _, label := range learnMoreLabels {
			if strings.Contains(text, label) {
				return href
			}
		}
	}
	return ""
}

// enclosingHref walks up from a label element to the nearest ancestor
// link, bounded to a few levels since the label sits directly inside the
// button markup.
func enclosingHref(el dom.Node) string {
	node := el
	for i := 0; i < 3 && node != nil; i++ {
		if node.Tag() == "a" {
			if href := node.Attr("href"); href != "" {
				return href
			}
		}
		node = node.Parent()
	}
	return ""
}

// HasMultipleVersions reports whether the card text carries the
// multi-version indicator in either language.
func HasMultipleVersions(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range multipleVersionsMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// FindAdDetailsButton returns the clickable element that opens the ad
// detail overlay, or nil when the card has none.
func FindAdDetailsButton(card dom.Node) dom.Node {
	for _, label := range adDetailsLabels {
		for _, el := range card.FindByText(label) {
			if btn := enclosingClickable(el); btn != nil {
				return btn
			}
			// No recognizable click target in the markup; the wrapper
			// around the label span is the best remaining guess.
			if parent := el.Parent(); parent != nil {
				return parent
			}
			return el
		}
	}
	return nil
}

// enclosingClickable walks up from a label element to the nearest element
// that is itself the click target. The label element counts too: some
// card variants render the label text directly on the clickable.
func enclosingClickable(el dom.Node) dom.Node {
	node := el
	for i := 0; i < 4 && node != nil; i++ {
		if isClickable(node) {
			return node
		}
		node = node.Parent()
	}
	return nil
}

func isClickable(node dom.Node) bool {
	switch node.Tag() {
	case "a", "button":
		return true
	}
	return node.Attr("role") == "button"
}

// CollectCreativeURLs gathers every content-CDN image URL under scope,
// deduplicated, preserving encounter order. Used on the detail overlay to
// collect all versions of a creative.
func CollectCreativeURLs(scope dom.Node) []string {
	var srcs []string
	for _, img := range dom.Images(scope) {
		srcs = append(srcs, img.Attr("src"))
	}
	return FilterCreativeURLs(srcs)
}

// FilterCreativeURLs keeps the content-CDN URLs from srcs, deduplicated,
// preserving encounter order.
func FilterCreativeURLs(srcs []string) []string {
	seen := make(map[string]bool)
	var urls []string

	for _, src := range srcs {
		if src == "" || strings.HasPrefix(src, "data:") {
			continue
		}
		if !containsAny(src, cdnFingerprints) {
			continue
		}
		if !seen[src] {
			seen[src] = true
			urls = append(urls, src)
		}
	}
	return urls
}
