package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// Truncate trims s and cuts it to at most max runes.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// NormalizeTokens trims, lowercases and de-duplicates the given tokens,
// preserving first-seen order. Empty tokens and tokens longer than maxLen
// are dropped; the result is capped at maxItems when maxItems > 0.
func NormalizeTokens(tokens []string, maxLen, maxItems int) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || (maxLen > 0 && len(t) > maxLen) {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
	}
	return out
}
