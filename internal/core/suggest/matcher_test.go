package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankScoresAgainstBag(t *testing.T) {
	candidates := []Candidate{
		{Name: "Chicken Rice", Tags: []string{"chicken", "rice"}},
		{Name: "Salmon Bowl", Tags: []string{"salmon", "rice", "avocado"}},
		{Name: "Toast", Tags: []string{"bread"}},
	}
	bag := []string{"Chicken Breast", "brown rice"}

	ranked := Rank(candidates, bag, nil)
	require.Len(t, ranked, 3)

	// chicken ∈ "chicken breast", rice ∈ "brown rice" → full match.
	assert.Equal(t, "Chicken Rice", ranked[0].Name)
	assert.Equal(t, 2, ranked[0].Have)
	assert.Equal(t, 1.0, ranked[0].Score)

	assert.Equal(t, "Salmon Bowl", ranked[1].Name)
	assert.Equal(t, 1, ranked[1].Have)
	assert.InDelta(t, 1.0/3.0, ranked[1].Score, 1e-9)

	assert.Equal(t, "Toast", ranked[2].Name)
	assert.Equal(t, 0.0, ranked[2].Score)
}

func TestRankScoreBounds(t *testing.T) {
	candidates := []Candidate{
		{Name: "A", Tags: []string{"x", "y", "z"}},
		{Name: "B", Tags: []string{"egg"}},
	}
	for _, r := range Rank(candidates, []string{"egg"}, nil) {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestRankEmptyTagsScoreZero(t *testing.T) {
	ranked := Rank([]Candidate{{Name: "Mystery", Tags: nil}}, []string{"egg"}, nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Have)
	assert.Equal(t, 0.0, ranked[0].Score)
}

func TestRankFavoritesFirst(t *testing.T) {
	candidates := []Candidate{
		{Name: "High Score", Tags: []string{"egg"}},
		{Name: "Starred", Tags: []string{"nothing"}},
	}
	ranked := Rank(candidates, []string{"egg"}, []string{"starred"})
	require.Len(t, ranked, 2)

	// A favorited meal outranks a perfect score.
	assert.Equal(t, "Starred", ranked[0].Name)
	assert.True(t, ranked[0].Favorited)
	assert.Equal(t, "High Score", ranked[1].Name)
}

func TestRankStableTies(t *testing.T) {
	candidates := []Candidate{
		{Name: "First", Tags: []string{"egg"}},
		{Name: "Second", Tags: []string{"egg"}},
		{Name: "Third", Tags: []string{"egg"}},
	}
	ranked := Rank(candidates, []string{"egg"}, nil)
	require.Len(t, ranked, 3)
	assert.Equal(t, "First", ranked[0].Name)
	assert.Equal(t, "Second", ranked[1].Name)
	assert.Equal(t, "Third", ranked[2].Name)
}

func TestRankIsPermutation(t *testing.T) {
	candidates := []Candidate{
		{Name: "A", Tags: []string{"egg"}},
		{Name: "B", Tags: []string{"rice"}},
		{Name: "C", Tags: []string{"tofu"}},
	}
	ranked := Rank(candidates, []string{"rice"}, []string{"C"})
	require.Len(t, ranked, len(candidates))

	seen := map[string]bool{}
	for _, r := range ranked {
		seen[r.Name] = true
	}
	for _, c := range candidates {
		assert.True(t, seen[c.Name])
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	candidates := []Candidate{
		{Name: "B", Tags: []string{"rice"}},
		{Name: "A", Tags: []string{"egg"}},
	}
	Rank(candidates, []string{"egg"}, nil)
	assert.Equal(t, "B", candidates[0].Name)
	assert.Equal(t, "A", candidates[1].Name)
}
