package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackWord(t *testing.T) {
	word := FallbackWord(nil)
	assert.Contains(t, FallbackWords, word)
}

func TestFallbackWord_RespectsExclusions(t *testing.T) {
	// Exclude everything but one word; that word must always come back
	excluded := make([]string, 0, len(FallbackWords)-1)
	for _, w := range FallbackWords[1:] {
		excluded = append(excluded, w)
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, FallbackWords[0], FallbackWord(excluded))
	}
}

func TestFallbackWord_ExclusionIsCaseInsensitive(t *testing.T) {
	excluded := make([]string, 0, len(FallbackWords)-1)
	for _, w := range FallbackWords {
		if w != "river" {
			excluded = append(excluded, strings.ToUpper(w))
		}
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "river", FallbackWord(excluded))
	}
}
