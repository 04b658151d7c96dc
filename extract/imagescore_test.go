package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func img(src string, w, h string) *fakeNode {
	return newFakeNode("img", "", map[string]string{"src": src, "width": w, "height": h})
}

func TestSelectThumbnailPicksContentCreative(t *testing.T) {
	// (a) profile picture fingerprint, (b) small square CDN image,
	// (c) large rectangular CDN image in the content area. Only (c) may win.
	profilePic := img("https://example.com/profile_picture/pic.jpg", "60", "60")
	smallSquare := img("https://scontent.xx.fbcdn.net/v/small.jpg", "100", "100").withBox(10)
	creative := img("https://scontent.xx.fbcdn.net/v/creative.jpg", "800", "500").withBox(120)

	card := newFakeNode("div", "", nil).add(profilePic, smallSquare, creative)

	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/creative.jpg", SelectThumbnail(card))
}

func TestSelectThumbnailRejections(t *testing.T) {
	tests := []struct {
		name string
		img  *fakeNode
	}{
		{"no src", img("", "800", "500")},
		{"data uri", img("data:image/png;base64,AAAA", "800", "500")},
		{"not on content cdn", img("https://example.com/banner.jpg", "800", "500")},
		{"profile size segment", img("https://scontent.xx.fbcdn.net/s60x60_face.jpg", "800", "500")},
		{"profile picture literal", img("https://scontent.xx.fbcdn.net/Profile_Picture.jpg", "800", "500")},
		{"icon sized", img("https://scontent.xx.fbcdn.net/tiny.jpg", "64", "64")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := newFakeNode("div", "", nil).add(tt.img)
			assert.Empty(t, SelectThumbnail(card))
		})
	}
}

func TestSelectThumbnailAvatarParentRejected(t *testing.T) {
	avatar := img("https://scontent.xx.fbcdn.net/v/pic.jpg", "200", "200")
	wrapper := newFakeNode("div", "", map[string]string{"class": "page-pic rounded"})
	wrapper.add(avatar)
	card := newFakeNode("div", "", nil).add(wrapper)

	assert.Empty(t, SelectThumbnail(card))
}

func TestSelectThumbnailNaturalSizeOverridesAttributes(t *testing.T) {
	// Declared 60x60 would fail the icon filter, but the loaded image is
	// actually 600x400.
	creative := img("https://scontent.xx.fbcdn.net/v/lazy.jpg", "60", "60").withNatural(600, 400)
	card := newFakeNode("div", "", nil).add(creative)

	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/lazy.jpg", SelectThumbnail(card))
}

func TestSelectThumbnailTieBrokenByEncounterOrder(t *testing.T) {
	first := img("https://scontent.xx.fbcdn.net/v/first.jpg", "400", "400")
	second := img("https://scontent.xx.fbcdn.net/v/second.jpg", "400", "400")
	card := newFakeNode("div", "", nil).add(first, second)

	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/first.jpg", SelectThumbnail(card))
}

func TestSelectThumbnailRectangularBeatsSquareOfSameArea(t *testing.T) {
	square := img("https://scontent.xx.fbcdn.net/v/square.jpg", "500", "500")
	rect := img("https://scontent.xx.fbcdn.net/v/rect.jpg", "625", "400")
	card := newFakeNode("div", "", nil).add(square, rect)

	assert.Equal(t, "https://scontent.xx.fbcdn.net/v/rect.jpg", SelectThumbnail(card))
}

func TestSelectThumbnailNoCandidates(t *testing.T) {
	card := newFakeNode("div", "광고 텍스트", nil)
	assert.Empty(t, SelectThumbnail(card))
}

func TestScoreImageWeights(t *testing.T) {
	// 800x500 at y=120: area 400000, ratio 1.6 aspect bonus, large-image
	// bonus, position bonus.
	creative := img("https://scontent.xx.fbcdn.net/v/c.jpg", "800", "500").withBox(120)

	cand, ok := scoreImage(creative)
	assert.True(t, ok)
	assert.Equal(t, 800, cand.width)
	assert.Equal(t, 500, cand.height)
	assert.InDelta(t, 400000+1.6*10000+20000+5000, cand.totalScore, 0.001)
}
