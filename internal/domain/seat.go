package domain

import "time"

// AISeatID is the fixed identity of the AI teammate's seat
const AISeatID = "ai-teammate"

// AISeatName is the display name shown for the AI teammate
const AISeatName = "Synergy AI"

// Seat represents one of the (at most two) participant positions in a room
type Seat struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsAI     bool      `json:"isAI"`
	JoinedAt time.Time `json:"joinedAt"`
}

// NewSeat creates a seat occupied by a human player
func NewSeat(id, name string) *Seat {
	return &Seat{
		ID:       id,
		Name:     name,
		JoinedAt: time.Now(),
	}
}

// NewAISeat creates the seat occupied by the AI teammate
func NewAISeat() *Seat {
	return &Seat{
		ID:       AISeatID,
		Name:     AISeatName,
		IsAI:     true,
		JoinedAt: time.Now(),
	}
}

// MemberInfo is the view of a seat included in room snapshots. It exposes
// whether the seat has submitted this round without revealing the word.
type MemberInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsAI      bool   `json:"isAI"`
	Submitted bool   `json:"submitted"`
}
