package domain

// Mode determines how a room's second seat is filled
type Mode string

const (
	ModePair Mode = "PAIR" // two humans
	ModeAI   Mode = "AI"   // one human plus the AI teammate
)

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether the mode is a known mode
func (m Mode) Valid() bool {
	return m == ModePair || m == ModeAI
}

// HumanSeats returns how many human players the mode requires
func (m Mode) HumanSeats() int {
	if m == ModeAI {
		return 1
	}
	return 2
}
