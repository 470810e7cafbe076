package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0, true))
	assert.Equal(t, DefaultLimit, ClampLimit(999, true))
	assert.Equal(t, DefaultLimit, ClampLimit(0, false))
	assert.Equal(t, DefaultLimit, ClampLimit(-3, false))
	assert.Equal(t, 10, ClampLimit(10, false))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1, false))
}

func TestSearchEmptyQueryReturnsCatalogHead(t *testing.T) {
	results := Search("", 5)
	require.Len(t, results, 5)
	assert.Equal(t, Ingredients[:5], results)

	// Same call again returns the same slice content.
	assert.Equal(t, results, Search("", 5))
}

func TestSearchSubstringCaseInsensitive(t *testing.T) {
	results := Search("ToMaT", DefaultLimit)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Contains(t, strings.ToLower(r), "tomat")
	}
	assert.Contains(t, results, "tomato")
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, Search("zzzzz-not-an-ingredient", DefaultLimit))
}

func TestSearchHonorsLimit(t *testing.T) {
	results := Search("a", 3)
	assert.Len(t, results, 3)
}

func TestSearchDoesNotMutateCatalog(t *testing.T) {
	before := append([]string(nil), Ingredients...)
	got := Search("", 3)
	got[0] = "mutated"
	assert.Equal(t, before, Ingredients)
}
