// Package suggest scores candidate meals against the user's grocery bag.
package suggest

import (
	"sort"
	"strings"
)

// Candidate is one meal considered for ranking.
type Candidate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	Calories    int      `json:"calories,omitempty"`
	TimeMinutes int      `json:"timeMinutes,omitempty"`
	Servings    int      `json:"servings,omitempty"`
	Source      string   `json:"source,omitempty"`
}

// Ranked is a candidate annotated with its match against the bag.
type Ranked struct {
	Candidate
	Have      int     `json:"have"`
	Score     float64 `json:"score"`
	Favorited bool    `json:"favorited"`
}

// Rank scores each candidate against the bag and returns them sorted:
// favorited meals first, then descending score, original order for ties.
// A tag counts as "have" when it is a case-insensitive substring of any
// bag item. Meals with no tags score 0. The input is never mutated.
func Rank(candidates []Candidate, bag []string, favorites []string) []Ranked {
	lowerBag := make([]string, len(bag))
	for i, item := range bag {
		lowerBag[i] = strings.ToLower(item)
	}

	favoriteSet := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		favoriteSet[strings.ToLower(f)] = struct{}{}
	}

	ranked := make([]Ranked, len(candidates))
	for i, cand := range candidates {
		have := 0
		for _, tag := range cand.Tags {
			needle := strings.ToLower(tag)
			for _, item := range lowerBag {
				if strings.Contains(item, needle) {
					have++
					break
				}
			}
		}
		score := 0.0
		if len(cand.Tags) > 0 {
			score = float64(have) / float64(len(cand.Tags))
		}
		_, fav := favoriteSet[strings.ToLower(cand.Name)]
		ranked[i] = Ranked{
			Candidate: cand,
			Have:      have,
			Score:     score,
			Favorited: fav,
		}
	}

	// Stability matters: equal keys keep their original order.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Favorited != ranked[j].Favorited {
			return ranked[i].Favorited
		}
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
