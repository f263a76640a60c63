package domain

// Status represents the current status of a room
type Status string

const (
	StatusWaiting   Status = "WAITING"   // Waiting for the second player to join
	StatusPlaying   Status = "PLAYING"   // Round active, deadline set
	StatusCountdown Status = "COUNTDOWN" // Reveal pause between rounds
	StatusWon       Status = "WON"       // Pair matched, waiting for rematch votes
	StatusClosing   Status = "CLOSING"   // Room is being torn down
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further rounds can start from this status
// without an explicit rematch
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusClosing
}

// CanTransitionTo checks if a transition from the current status to the
// target status is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusWaiting:   {StatusPlaying, StatusClosing},
		StatusPlaying:   {StatusCountdown, StatusWon, StatusClosing},
		StatusCountdown: {StatusPlaying, StatusClosing},
		StatusWon:       {StatusPlaying, StatusClosing}, // rematch or teardown
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
