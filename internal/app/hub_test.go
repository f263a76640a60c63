package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synergy/internal/domain"
)

func newTestHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(fastSettings(), 0, &fakeSuggester{word: "river"}, discardLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestHub_CreateRoom(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)
	assert.Len(t, session.GetRoomCode(), DefaultRoomCodeLength)
	assert.Equal(t, domain.StatusWaiting, session.GetStatus())

	for _, ch := range session.GetRoomCode() {
		assert.Contains(t, RoomCodeChars, string(ch))
	}

	found, err := hub.GetSession(session.GetRoomCode())
	require.NoError(t, err)
	assert.Same(t, session, found)
}

func TestHub_CreateRoom_InvalidMode(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.CreateRoom(domain.Mode("SOLO"))
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestHub_CreateRoom_CustomCodeLength(t *testing.T) {
	hub := NewRoomHub(fastSettings(), 8, nil, discardLogger())
	defer hub.Close()

	session, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)
	assert.Len(t, session.GetRoomCode(), 8)
}

func TestHub_CodesAreUnique(t *testing.T) {
	hub := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := hub.CreateRoom(domain.ModePair)
		require.NoError(t, err)
		assert.False(t, seen[session.GetRoomCode()])
		seen[session.GetRoomCode()] = true
	}
	assert.Equal(t, 50, hub.GetSessionCount())
}

func TestHub_GetSession_NotFound(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.GetSession("NOPE42")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestHub_ClosedRoomIsRemoved(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom(domain.ModeAI)
	require.NoError(t, err)
	code := session.GetRoomCode()

	session.Close("test teardown")

	// Removal runs off the session's teardown goroutine
	require.Eventually(t, func() bool {
		_, err := hub.GetSession(code)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, hub.GetSessionCount())
}

func TestHub_FreedCodeCoolsDown(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)
	code := session.GetRoomCode()

	session.Close("test teardown")
	require.Eventually(t, func() bool {
		return hub.GetSessionCount() == 0
	}, time.Second, 5*time.Millisecond)

	hub.mu.Lock()
	available := hub.codeAvailableLocked(code)
	hub.mu.Unlock()
	assert.False(t, available, "freed code must stay unavailable during the cooldown")

	// Expire the cooldown and the code frees up
	hub.mu.Lock()
	hub.freedAt[code] = time.Now().Add(-CodeReuseCooldown)
	available = hub.codeAvailableLocked(code)
	hub.mu.Unlock()
	assert.True(t, available)
}

func TestHub_PlayerCount(t *testing.T) {
	hub := newTestHub(t)

	s1, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)
	s2, err := hub.CreateRoom(domain.ModeAI)
	require.NoError(t, err)

	_, err = s1.Join("p1", "Alice")
	require.NoError(t, err)
	_, err = s2.Join("p2", "Bob")
	require.NoError(t, err)

	assert.Equal(t, 2, hub.GetTotalPlayerCount())
}
