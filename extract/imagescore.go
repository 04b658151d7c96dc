package extract

import (
	"strconv"
	"strings"

	"github.com/eejihoon/scrappers/dom"
)

// URL fingerprints separating ad creative from everything else the card
// embeds. The content CDN serves both, so profile pictures are excluded
// by their fixed thumbnail-size path segments.
var (
	cdnFingerprints = []string{"scontent", "fbcdn"}

	profileFingerprints = []string{
		"/s148x148_",
		"/s60x60_",
		"/s32x32_",
		"profile_picture",
		"/p148x148/",
		"/p60x60/",
		"/c148.148.",
		"/c60.60.",
	}

	avatarParentKeywords = []string{"profile", "avatar", "page-pic", "page_pic"}
)

// Scoring constants. The weights are the only disambiguation signal
// available without a stable creative-image attribute; do not retune them
// casually.
const (
	minImageEdge    = 80    // px floor below which an image is treated as an icon
	minRectRatio    = 1.2   // aspect ratio above which the rectangular bonus applies
	largeImageArea  = 50000 // px^2 above which the size bonus applies
	headerOffset    = 50    // viewport y below which images are treated as header-pinned
	aspectWeight    = 10000.0
	sizeBonusWeight = 20000.0
	positionBonusWt = 5000.0
)

// imageCandidate is the transient per-card scoring record for one image.
type imageCandidate struct {
	url        string
	width      int
	height     int
	totalScore float64
}

// SelectThumbnail ranks every image descendant of the card and returns the
// URL of the most creative-looking one, or "" when no candidate survives
// the filters.
func SelectThumbnail(card dom.Node) string {
	var best *imageCandidate

	for _, img := range dom.Images(card) {
		cand, ok := scoreImage(img)
		if !ok {
			continue
		}
		// Strict comparison keeps the first candidate on ties.
		if best == nil || cand.totalScore > best.totalScore {
			c := cand
			best = &c
		}
	}

	if best == nil {
		return ""
	}
	return best.url
}

// scoreImage applies the filter chain and computes the candidate's score.
// ok=false means the image was rejected.
func scoreImage(img dom.Node) (imageCandidate, bool) {
	src := img.Attr("src")
	if src == "" || strings.HasPrefix(src, "data:") {
		return imageCandidate{}, false
	}
	if !containsAny(src, cdnFingerprints) {
		return imageCandidate{}, false
	}

	lowerSrc := strings.ToLower(src)
	if containsAny(lowerSrc, profileFingerprints) {
		return imageCandidate{}, false
	}

	if parent := img.Parent(); parent != nil {
		meta := strings.ToLower(parent.Attr("class") + " " + parent.Attr("style"))
		if containsAny(meta, avatarParentKeywords) {
			return imageCandidate{}, false
		}
	}

	width, height := resolveDimensions(img)

	// Icon filter applies only when both dimensions are known.
	if width > 0 && height > 0 && (width < minImageEdge || height < minImageEdge) {
		return imageCandidate{}, false
	}

	area := width * height

	aspectBonus := 0.0
	if width > 0 && height > 0 {
		ratio := float64(max(width, height)) / float64(min(width, height))
		if ratio > minRectRatio {
			aspectBonus = ratio
		}
	}

	sizeBonus := 0.0
	if area > largeImageArea {
		sizeBonus = 1
	}

	positionBonus := 0.0
	if box, ok := img.BoundingBox(); ok && box.Y > headerOffset {
		positionBonus = 1
	}

	total := float64(area) +
		aspectBonus*aspectWeight +
		sizeBonus*sizeBonusWeight +
		positionBonus*positionBonusWt

	return imageCandidate{
		url:        src,
		width:      width,
		height:     height,
		totalScore: total,
	}, true
}

// resolveDimensions prefers the loaded image's natural pixel size over the
// declared width/height attributes whenever the natural value is larger.
func resolveDimensions(img dom.Node) (int, int) {
	width := atoiOrZero(img.Attr("width"))
	height := atoiOrZero(img.Attr("height"))

	if nw, nh, ok := img.NaturalSize(); ok {
		if nw > width {
			width = nw
		}
		if nh > height {
			height = nh
		}
	}
	return width, height
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
