package session

import (
	"sync"
	"testing"
	"time"

	"dama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	frames []interface{}
	closed bool
}

func (r *recorder) Send(frame interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recorder) last() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

type fakeStats struct {
	mu      sync.Mutex
	results map[string]dama.PlayerResult
}

func (f *fakeStats) RecordResult(userID string, result dama.PlayerResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.results == nil {
		f.results = make(map[string]dama.PlayerResult)
	}
	f.results[userID] = result
}

func newTestGame(stats dama.Stats) (*Game, *recorder, *recorder) {
	white := &ParticipantSlot{UserID: "u1", DisplayName: "Alice"}
	black := &ParticipantSlot{UserID: "u2", DisplayName: "Bob"}
	g := New("game-1", white, black, stats)

	wc := &recorder{}
	bc := &recorder{}
	g.Attach(dama.White, nil, wc)
	g.Attach(dama.Black, nil, bc)
	return g, wc, bc
}

func TestAttachBroadcastsInitialState(t *testing.T) {
	_, wc, bc := newTestGame(nil)
	require.Equal(t, 2, wc.count())
	frame, ok := wc.last().(*StateFrame)
	require.True(t, ok)
	assert.Equal(t, "white", frame.Turn)
	assert.Equal(t, "Alice", frame.Players.White.Name)
	assert.Equal(t, "Bob", frame.Players.Black.Name)
	_ = bc
}

// Scenario: a legal opening move broadcasts an updated state to both
// sides and changes whose turn it is.
func TestMoveOpeningStep(t *testing.T) {
	g, wc, bc := newTestGame(nil)
	err := g.Move(dama.White, dama.Coord{R: 5, C: 0}, dama.Coord{R: 4, C: 1})
	require.NoError(t, err)

	frame, ok := wc.last().(*StateFrame)
	require.True(t, ok)
	assert.Equal(t, "black", frame.Turn)
	require.NotNil(t, frame.Board[4][1])
	assert.Equal(t, "white", frame.Board[4][1].Color)
	assert.Same(t, wc.last(), bc.last())
}

func TestMoveRejectsOutOfTurn(t *testing.T) {
	g, _, _ := newTestGame(nil)
	err := g.Move(dama.Black, dama.Coord{R: 2, C: 1}, dama.Coord{R: 3, C: 0})
	assert.Error(t, err)
}

// Scenario: surrender ends the game exactly once, with a game_over frame
// sent to both sides and stats recorded for both participants.
func TestSurrenderEndsGameOnce(t *testing.T) {
	stats := &fakeStats{}
	g, wc, bc := newTestGame(stats)

	g.Surrender(dama.White)

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("game did not finish after surrender")
	}

	wFrame, ok := wc.last().(GameOverFrame)
	require.True(t, ok)
	assert.Equal(t, "black", wFrame.Winner)
	assert.Equal(t, "surrender", wFrame.Reason)

	bFrame, ok := bc.last().(GameOverFrame)
	require.True(t, ok)
	assert.Equal(t, "black", bFrame.Winner)

	wc.mu.Lock()
	assert.True(t, wc.closed, "white's connection must be closed once the game ends")
	wc.mu.Unlock()
	bc.mu.Lock()
	assert.True(t, bc.closed, "black's connection must be closed once the game ends")
	bc.mu.Unlock()

	stats.mu.Lock()
	defer stats.mu.Unlock()
	assert.Equal(t, dama.Loss, stats.results["u1"])
	assert.Equal(t, dama.Win, stats.results["u2"])

	// A move submitted after the game has finished must not panic and
	// must not change the result.
	err := g.Move(dama.Black, dama.Coord{R: 2, C: 1}, dama.Coord{R: 3, C: 0})
	assert.NoError(t, err)
}

func TestChatRelayedToOpponentOnly(t *testing.T) {
	g, wc, bc := newTestGame(nil)
	wc.frames = nil
	bc.frames = nil

	g.Chat(dama.White, "good luck")

	require.Equal(t, 1, bc.count())
	frame, ok := bc.last().(ChatFrame)
	require.True(t, ok)
	assert.Equal(t, "Alice", frame.Sender)
	assert.Equal(t, "good luck", frame.Text)
	assert.Equal(t, 0, wc.count())
}
