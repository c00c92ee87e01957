package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Best Of Edmonton 2024", "best-of-edmonton-2024"},
		{"Café Crawl: Old Strathcona", "cafe-crawl-old-strathcona"},
		{"  Folk  Fest —  Calgary  ", "folk-fest-calgary"},
		{"What's On? (August)", "whats-on-august"},
		{"100% Gluten-Free", "100-gluten-free"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.title), "title %q", tc.title)
	}
}

func TestGenerateSlugIsIdempotent(t *testing.T) {
	slug := GenerateSlug("Best Of Edmonton 2024")
	assert.Equal(t, slug, GenerateSlug(slug))
}

func TestSlugsEqual(t *testing.T) {
	derived := GenerateSlug("Best Of Edmonton 2024")

	assert.True(t, SlugsEqual("best-of-edmonton-2024", derived))
	assert.True(t, SlugsEqual("BEST-OF-EDMONTON-2024", derived))
	assert.True(t, SlugsEqual("  best-of-edmonton-2024 ", derived))
	assert.False(t, SlugsEqual("best-of-calgary-2024", derived))
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Cafe Crawl", RemoveDiacritics("Café Crawl"))
	assert.Equal(t, "creme brulee", RemoveDiacritics("crème brûlée"))
	assert.Equal(t, "plain ascii", RemoveDiacritics("plain ascii"))
}
