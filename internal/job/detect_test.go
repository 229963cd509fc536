package job

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"marker in attribute", `<span id="priceblock_dealprice">1</span>`, true},
		{"marker in text", "priceblock_dealprice", true},
		{"different case", `<span id="PRICEBLOCK_DEALPRICE">`, false},
		{"similar id", `<span id="priceblock_ourprice">`, false},
		{"empty body", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.body, DefaultDealMarker))
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"product title wins", `<title>Shop</title><span id="productTitle">  Red
		  Kettle </span>`, "Red Kettle"},
		{"falls back to title", `<html><head><title> Blue Mug </title></head></html>`, "Blue Mug"},
		{"nothing", `<html><body>hi</body></html>`, ""},
		{"not html", "plain text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.body))
		})
	}
}

func TestExtractTitle_Truncates(t *testing.T) {
	title := ExtractTitle("<title>" + strings.Repeat("é", 500) + "</title>")
	assert.Equal(t, maxTitleLength, len([]rune(title)))
	assert.True(t, strings.HasSuffix(title, "..."))
}
