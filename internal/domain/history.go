package domain

// NoGuess is the sentinel recorded for a seat that failed to submit before
// the deadline. Sentinel values never participate in the win comparison.
const NoGuess = "---"

// HistoryEntry is one resolved round
type HistoryEntry struct {
	Round int               `json:"round"`
	Words map[string]string `json:"words"` // seat ID -> word (may be NoGuess)
}

// WordPair is a resolved round's two words when both seats produced a real
// word. It is the context handed to the AI for the next suggestion.
type WordPair struct {
	Human   string `json:"human"`
	Partner string `json:"partner"`
}

// Outcome is the result of resolving a round
type Outcome struct {
	Round int
	Won   bool
	Word  string // the matched word when Won
	Entry HistoryEntry
}
