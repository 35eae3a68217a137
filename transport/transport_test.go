package transport

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dama"
	"dama/matchmaking"
	"dama/registry"
	"dama/session"
)

type noAuth struct{}

func (noAuth) ResolveSession(string) (*dama.User, bool)  { return nil, false }
func (noAuth) ResolveUserByID(string) (*dama.User, bool) { return nil, false }

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestMatchmakingHandlerPairsTwoClients(t *testing.T) {
	reg := registry.New()
	queue := matchmaking.New(reg, nil)
	srv := httptest.NewServer(MatchmakingHandler(queue, noAuth{}, time.Minute, time.Minute))
	defer srv.Close()

	a := dial(t, srv.URL)
	defer a.Close()
	b := dial(t, srv.URL)
	defer b.Close()

	var first, second struct {
		Type   string `json:"type"`
		GameID string `json:"game_id"`
		Color  string `json:"color"`
	}
	require.NoError(t, a.ReadJSON(&first))
	require.NoError(t, b.ReadJSON(&second))

	assert.Equal(t, "match_found", first.Type)
	assert.Equal(t, first.GameID, second.GameID)
	assert.ElementsMatch(t, []string{"white", "black"}, []string{first.Color, second.Color})
}

func TestGameHandlerRelaysMove(t *testing.T) {
	reg := registry.New()
	g := session.New("g1", session.NewParticipant(nil), session.NewParticipant(nil), nil)
	reg.Add("g1", g)

	srv := httptest.NewServer(GameHandler(reg, noAuth{}, time.Minute, time.Minute))
	defer srv.Close()

	white := dial(t, srv.URL+"/ws/game/g1/white")
	defer white.Close()
	black := dial(t, srv.URL+"/ws/game/g1/black")
	defer black.Close()

	// Drain the initial state frames pushed on attach: white is attached
	// first and alone (1 broadcast reaches only white), then black's
	// attach broadcasts to both (a 2nd frame for white, the 1st for
	// black).
	drainUpdates(t, white, 2)
	drainUpdates(t, black, 1)

	move := map[string]interface{}{
		"type": "move",
		"from": map[string]int{"r": 5, "c": 0},
		"to":   map[string]int{"r": 4, "c": 1},
	}
	require.NoError(t, white.WriteJSON(move))

	frame := readUpdate(t, black)
	assert.Equal(t, "update", frame["type"])
	assert.Equal(t, "black", frame["turn"])
}

// Scenario: attaching to a game id the registry has never heard of gets
// a close frame with code 4000, per spec.md's unknown-game-id rule,
// rather than a bare HTTP error (which would skip the handshake).
func TestGameHandlerClosesUnknownGame(t *testing.T) {
	reg := registry.New()
	srv := httptest.NewServer(GameHandler(reg, noAuth{}, time.Minute, time.Minute))
	defer srv.Close()

	conn := dial(t, srv.URL+"/ws/game/missing/white")
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	closeErr, ok := err.(*websocket.CloseError)
	require.True(t, ok, "expected a close error, got %T: %v", err, err)
	assert.Equal(t, 4000, closeErr.Code)
}

func drainUpdates(t *testing.T, conn *websocket.Conn, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		readUpdate(t, conn)
	}
}

func readUpdate(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var frame map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}
