package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("  abc  ", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abcdef", Truncate("abcdef", 0))
	// Rune-safe: no mid-codepoint cuts.
	assert.Equal(t, "héll", Truncate("héllo", 4))
}

func TestNormalizeTokens(t *testing.T) {
	got := NormalizeTokens([]string{"tomato", "Tomato", "  onion "}, 40, 40)
	assert.Equal(t, []string{"tomato", "onion"}, got)
}

func TestNormalizeTokensDropsEmptyAndLong(t *testing.T) {
	long := strings.Repeat("x", 41)
	got := NormalizeTokens([]string{"", "   ", long, "ok"}, 40, 40)
	assert.Equal(t, []string{"ok"}, got)
}

func TestNormalizeTokensCap(t *testing.T) {
	in := make([]string, 50)
	for i := range in {
		in[i] = strings.Repeat("a", i+1)
	}
	got := NormalizeTokens(in, 0, 40)
	assert.Len(t, got, 40)
}

func TestGenerateUUID(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
