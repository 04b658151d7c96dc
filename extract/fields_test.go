package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnMoreURLFromLabeledButton(t *testing.T) {
	doc := parseFixture(t, `
		<html><body>
			<div class="card">
				<a href="https://l.facebook.com/l.php?u=https%3A%2F%2Fshop.example.com">
					<span>자세히 알아보기</span>
				</a>
			</div>
		</body></html>`)

	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	assert.Equal(t,
		"https://l.facebook.com/l.php?u=https%3A%2F%2Fshop.example.com",
		LearnMoreURL(cards[0]))
}

func TestLearnMoreURLFallbackScansLinks(t *testing.T) {
	doc := parseFixture(t, `
		<html><body>
			<div class="card">
				<a href="/ads/about">About this ad</a>
				<a href="https://shop.example.com/item">Shop Now</a>
			</div>
		</body></html>`)

	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	assert.Equal(t, "https://shop.example.com/item", LearnMoreURL(cards[0]))
}

func TestLearnMoreURLAbsent(t *testing.T) {
	doc := parseFixture(t, `<html><body><div class="card"><span>텍스트</span></div></body></html>`)
	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	assert.Empty(t, LearnMoreURL(cards[0]))
}

func TestHasMultipleVersions(t *testing.T) {
	assert.True(t, HasMultipleVersions("여러 버전이 있는 광고입니다"))
	assert.True(t, HasMultipleVersions("This ad has multiple versions"))
	assert.True(t, HasMultipleVersions("This ad has Multiple Versions"))
	assert.False(t, HasMultipleVersions("Library ID: 123"))
	assert.False(t, HasMultipleVersions(""))
}

func TestFindAdDetailsButton(t *testing.T) {
	doc := parseFixture(t, `
		<html><body>
			<div class="card">
				<div role="button"><span>광고 상세 정보 보기</span></div>
			</div>
		</body></html>`)

	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	button := FindAdDetailsButton(cards[0])
	require.NotNil(t, button)
	assert.Equal(t, "button", button.Attr("role"))
}

func TestFindAdDetailsButtonLabelIsClickable(t *testing.T) {
	// The label element itself is the link; the wrapper around it is not
	// the click target.
	doc := parseFixture(t, `
		<html><body>
			<div class="card">
				<div class="wrapper"><a href="/ads/detail">See ad details</a></div>
			</div>
		</body></html>`)

	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	button := FindAdDetailsButton(cards[0])
	require.NotNil(t, button)
	assert.Equal(t, "a", button.Tag())
	assert.Equal(t, "/ads/detail", button.Attr("href"))
}

func TestFindAdDetailsButtonClickableAboveWrapper(t *testing.T) {
	doc := parseFixture(t, `
		<html><body>
			<div class="card">
				<div role="button"><div class="inner"><span>See ad details</span></div></div>
			</div>
		</body></html>`)

	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	button := FindAdDetailsButton(cards[0])
	require.NotNil(t, button)
	assert.Equal(t, "button", button.Attr("role"))
}

func TestFindAdDetailsButtonAbsent(t *testing.T) {
	doc := parseFixture(t, `<html><body><div class="card"><span>활성</span></div></body></html>`)
	cards := doc.Find(".card")
	require.Len(t, cards, 1)

	assert.Nil(t, FindAdDetailsButton(cards[0]))
}

func TestCollectCreativeURLs(t *testing.T) {
	doc := parseFixture(t, `
		<html><body>
			<div class="modal">
				<img src="https://scontent.xx.fbcdn.net/v/one.jpg">
				<img src="https://scontent.xx.fbcdn.net/v/two.jpg">
				<img src="https://scontent.xx.fbcdn.net/v/one.jpg">
				<img src="https://example.com/off-cdn.jpg">
				<img src="data:image/gif;base64,AAAA">
			</div>
		</body></html>`)

	modals := doc.Find(".modal")
	require.Len(t, modals, 1)

	assert.Equal(t, []string{
		"https://scontent.xx.fbcdn.net/v/one.jpg",
		"https://scontent.xx.fbcdn.net/v/two.jpg",
	}, CollectCreativeURLs(modals[0]))
}
