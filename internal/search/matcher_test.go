package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"shirt", "shrt", 1},
		{"pants", "paints", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "levenshtein(%q, %q)", tc.a, tc.b)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "tshirt", normalize("T-Shirts"))
	assert.Equal(t, "longsleeve", normalize("Long Sleeves"))
	assert.Equal(t, "short", normalize("  shorts "))
}

func TestMatchExactQueryNoAdvisory(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "Basic Shorts", Category: "Shorts"},
		{Name: "Slim Pants", Category: "Pants"},
	}

	result := Match("shorts", corpus)

	assert.Empty(t, result.Advisory)
	assert.Equal(t, []string{"Basic Shorts"}, result.Results)
}

func TestMatchHitsCategoryOnly(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "Board Walkers", Category: "Shorts"},
		{Name: "Denim Jacket", Category: "Jackets"},
	}

	result := Match("shorts", corpus)

	assert.Empty(t, result.Advisory)
	assert.Equal(t, []string{"Board Walkers"}, result.Results)
}

func TestMatchToleratesTypoViaFallback(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "Basic Shirt", Category: "Tops"},
		{Name: "Slim Pants", Category: "Bottoms"},
	}

	result := Match("shrit", corpus)

	assert.Equal(t, []string{"Basic Shirt"}, result.Results)
	assert.Equal(t, "showing results related to shirt", result.Advisory)
}

func TestShortQueryPartialMatchAdvisory(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "Slim Pants", Category: "Bottoms"},
		{Name: "Denim Jacket", Category: "Jackets"},
	}

	result := Match("pan", corpus)

	assert.Equal(t, partialMatchAdvisory, result.Advisory)
	assert.Equal(t, []string{"Slim Pants"}, result.Results)
}

func TestShortQueryNoMatchReportsNothing(t *testing.T) {
	corpus := []CorpusEntry{{Name: "Denim Jacket", Category: "Jackets"}}

	result := Match("shi", corpus)

	assert.Empty(t, result.Results)
	assert.Empty(t, result.Advisory)
}

func TestMatchFallbackRefiltersByClosestLabel(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "Slim Pants", Category: "Bottoms"},
		{Name: "Denim Jacket", Category: "Jackets"},
	}

	result := Match("pnts", corpus)

	assert.Equal(t, []string{"Slim Pants"}, result.Results)
	assert.Equal(t, "showing results related to pants", result.Advisory)
}

func TestMatchDeduplicatesByNormalizedName(t *testing.T) {
	corpus := []CorpusEntry{
		{Name: "T-Shirt", Category: "Tops"},
		{Name: "Tshirts", Category: "Tops"},
	}

	result := Match("tshirt", corpus)

	assert.Equal(t, []string{"T-Shirt"}, result.Results)
}

func TestMatchEmptyQuery(t *testing.T) {
	result := Match("   ", []CorpusEntry{{Name: "Denim Jacket", Category: "Jackets"}})

	assert.Empty(t, result.Results)
	assert.Empty(t, result.Advisory)
}

func TestMatchSingularMatchesPlural(t *testing.T) {
	corpus := []CorpusEntry{{Name: "Cargo Shorts", Category: "Shorts"}}

	result := Match("short", corpus)

	assert.Equal(t, []string{"Cargo Shorts"}, result.Results)
}
