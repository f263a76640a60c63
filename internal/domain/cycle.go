package domain

// Cycle holds the transient state of the active round. It is created when a
// round starts and consumed exactly once when the round resolves, by timeout
// or by full submission. It is never mutated after resolution.
type Cycle struct {
	Round     int
	Words     map[string]string // seat ID -> submitted word
	AIPending bool              // an AI suggestion request is in flight
	TimedOut  bool              // deadline passed while the AI request was pending
	Resolved  bool              // single-use resolution guard
}

// NewCycle creates the cycle for the given round number
func NewCycle(round int) *Cycle {
	return &Cycle{
		Round: round,
		Words: make(map[string]string),
	}
}

// Submitted reports whether the given seat has a word recorded this round
func (c *Cycle) Submitted(seatID string) bool {
	_, ok := c.Words[seatID]
	return ok
}
