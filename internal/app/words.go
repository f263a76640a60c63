package app

import (
	"math/rand"
	"strings"
)

// FallbackWords is a pool of neutral, common words used for the AI seat when
// the suggestion service fails or returns nothing usable
var FallbackWords = []string{
	"water", "light", "stone", "music", "paper",
	"river", "cloud", "glass", "metal", "sugar",
	"night", "house", "green", "apple", "bread",
	"ocean", "fire", "earth", "wind", "road",
	"book", "door", "tree", "star", "rain",
	"coffee", "silver", "garden", "winter", "summer",
	"bridge", "circle", "shadow", "market", "island",
	"forest", "candle", "mirror", "pocket", "window",
}

// FallbackWord returns a random fallback word that is not in the excluded
// list (compared case-insensitively)
func FallbackWord(excluded []string) string {
	excludeMap := make(map[string]bool, len(excluded))
	for _, w := range excluded {
		excludeMap[strings.ToLower(w)] = true
	}

	// Try to find a non-excluded word
	for attempts := 0; attempts < 100; attempts++ {
		word := FallbackWords[rand.Intn(len(FallbackWords))]
		if !excludeMap[word] {
			return word
		}
	}

	// Fallback: just return any word
	return FallbackWords[rand.Intn(len(FallbackWords))]
}
