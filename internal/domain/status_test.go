package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusWon.Terminal())
	assert.True(t, StatusClosing.Terminal())
	assert.False(t, StatusWaiting.Terminal())
	assert.False(t, StatusPlaying.Terminal())
	assert.False(t, StatusCountdown.Terminal())
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusWaiting.CanTransitionTo(StatusPlaying))
	assert.True(t, StatusPlaying.CanTransitionTo(StatusCountdown))
	assert.True(t, StatusPlaying.CanTransitionTo(StatusWon))
	assert.True(t, StatusCountdown.CanTransitionTo(StatusPlaying))
	assert.True(t, StatusWon.CanTransitionTo(StatusPlaying))

	// Every status can be torn down except a room already closing
	for _, s := range []Status{StatusWaiting, StatusPlaying, StatusCountdown, StatusWon} {
		assert.True(t, s.CanTransitionTo(StatusClosing), string(s))
	}

	assert.False(t, StatusWaiting.CanTransitionTo(StatusWon))
	assert.False(t, StatusCountdown.CanTransitionTo(StatusWon))
	assert.False(t, StatusClosing.CanTransitionTo(StatusPlaying))
	assert.False(t, StatusWon.CanTransitionTo(StatusCountdown))
}
