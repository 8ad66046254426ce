package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title> Vintage Camera - Auction </title>
<meta property="og:image" content="https://img.example.com/preview.jpg">
</head>
<body><h1>ignored</h1></body>
</html>`

func TestExtract_TitleAndImage(t *testing.T) {
	m := Extract([]byte(samplePage), "https://auctions.yahoo.co.jp/item/x123456789")

	assert.Equal(t, "Vintage Camera - Auction", m.Title)
	assert.Equal(t, "https://img.example.com/preview.jpg", m.Image)
	assert.Equal(t, "https://auctions.yahoo.co.jp/item/x123456789", m.SourceURL)
	assert.Equal(t, "x123456789", m.RawID)
}

func TestExtract_Defaults(t *testing.T) {
	m := Extract([]byte("<html><head></head><body></body></html>"), "https://example.com/items/42")

	assert.Equal(t, PlaceholderTitle, m.Title)
	assert.Empty(t, m.Image)
	assert.Equal(t, "42", m.RawID)
}

func TestExtract_EmptyTitleFallsBack(t *testing.T) {
	m := Extract([]byte("<html><head><title>   </title></head></html>"), "https://example.com/a")
	assert.Equal(t, PlaceholderTitle, m.Title)
}

func TestExtract_OtherMetaIgnored(t *testing.T) {
	page := `<html><head>
	<meta property="og:title" content="nope">
	<meta property="og:image" content="">
	<meta property="og:image" content="https://img.example.com/second.jpg">
	</head></html>`

	m := Extract([]byte(page), "https://example.com/a")
	assert.Equal(t, "https://img.example.com/second.jpg", m.Image)
}

func TestExtract_GarbageMarkupStillReturnsDefaults(t *testing.T) {
	m := Extract([]byte("<<<<not html>>>>"), "https://example.com/items/9")
	assert.Equal(t, PlaceholderTitle, m.Title)
	assert.Equal(t, "9", m.RawID)
}

func TestLastPathSegment(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://auctions.yahoo.co.jp/item/q111", "q111"},
		{"https://example.com/a/b/c/", "c"},
		{"https://example.com", ""},
		{"https://example.com/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lastPathSegment(tt.url), tt.url)
	}
}
