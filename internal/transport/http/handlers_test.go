package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synergy/internal/app"
	"synergy/internal/config"
	"synergy/internal/domain"
)

func newTestServer(t *testing.T) (*Server, *app.RoomHub) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Host: "127.0.0.1", Env: "test"},
		Game: config.GameConfig{
			RoundDuration: 30 * time.Second,
			RevealPause:   3 * time.Second,
			IdleTimeout:   2 * time.Minute,
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := app.NewRoomHub(domain.Settings{
		RoundDuration: cfg.Game.RoundDuration,
		RevealPause:   cfg.Game.RevealPause,
		IdleTimeout:   cfg.Game.IdleTimeout,
	}, 0, nil, logger)
	t.Cleanup(hub.Close)

	return NewServer(cfg, hub, logger), hub
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateRoom(t *testing.T) {
	server, hub := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/rooms", `{"mode":"ai"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	code := data["roomCode"].(string)
	assert.Len(t, code, app.DefaultRoomCodeLength)
	assert.Equal(t, "ai", data["mode"])
	assert.Contains(t, data["inviteLink"], "/join/"+code)

	session, err := hub.GetSession(code)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAI, session.GetMode())
}

func TestCreateRoom_DefaultsToPairMode(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/rooms", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pair", data["mode"])
}

func TestCreateRoom_InvalidMode(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/rooms", `{"mode":"solo"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_MODE", resp.Error.Code)
}

func TestCreateRoom_MalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodPost, "/api/rooms", `{"mode":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BODY", decodeResponse(t, rec).Error.Code)
}

func TestGetRoom(t *testing.T) {
	server, hub := newTestServer(t)

	session, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)

	// Lookup is case-insensitive
	rec := doRequest(server, http.MethodGet, "/api/rooms/"+strings.ToLower(session.GetRoomCode()), "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, session.GetRoomCode(), data["roomCode"])
	assert.Equal(t, "WAITING", data["status"])
	assert.Equal(t, float64(0), data["playerCount"])
	assert.Equal(t, true, data["canJoin"])
}

func TestGetRoom_NotFound(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/rooms/NOPE42", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROOM_NOT_FOUND", decodeResponse(t, rec).Error.Code)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestStats(t *testing.T) {
	server, hub := newTestServer(t)

	session, err := hub.CreateRoom(domain.ModePair)
	require.NoError(t, err)
	_, err = session.Join("p1", "Alice")
	require.NoError(t, err)

	rec := doRequest(server, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeResponse(t, rec).Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["activeRooms"])
	assert.Equal(t, float64(1), data["totalPlayers"])
}

func TestCORSPreflight(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodOptions, "/api/rooms", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestParseMode(t *testing.T) {
	mode, err := parseMode(" PAIR ")
	require.NoError(t, err)
	assert.Equal(t, domain.ModePair, mode)

	mode, err = parseMode("ai")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeAI, mode)

	_, err = parseMode("duo")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}
