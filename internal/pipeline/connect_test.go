package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToRuneBoundary_ShortInputUntouched(t *testing.T) {
	assert.Equal(t, "héllo", truncateToRuneBoundary("héllo", 64))
}

func TestTruncateToRuneBoundary_NeverSplitsARune(t *testing.T) {
	// "é" is two bytes; a byte-boundary cut at any offset must still yield
	// valid UTF-8.
	s := strings.Repeat("é", 10)
	for max := 0; max <= len(s); max++ {
		out := truncateToRuneBoundary(s, max)
		assert.LessOrEqual(t, len(out), max)
		assert.True(t, utf8.ValidString(out), "max=%d", max)
	}
}

func TestTruncateToRuneBoundary_ExactBoundary(t *testing.T) {
	assert.Equal(t, "日本", truncateToRuneBoundary("日本語", 6))
	assert.Equal(t, "日本", truncateToRuneBoundary("日本語", 7))
	assert.Equal(t, "日本", truncateToRuneBoundary("日本語", 8))
}

func TestPickSampleFiles_PrefersShallowEntryPoints(t *testing.T) {
	paths := []string{
		"internal/deep/helper.go",
		"main.go",
		"vendor/lib/lib.go",
		"widget_test.go",
		"widget.go",
	}
	picked := pickSampleFiles(paths, 3)
	assert.Equal(t, []string{"main.go", "widget.go", "internal/deep/helper.go"}, picked)
}
