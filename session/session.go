// Game session: the single goroutine that owns one match's board state
// and mediates every move, chat message and disconnect for its two
// participants.
//
// Copyright (c) 2021, 2022  Philip Kaludercic
//
// This file is part of go-kgp.
//
// go-kgp is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-kgp is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-kgp. If not, see
// <http://www.gnu.org/licenses/>

// Package session implements the Game Session component: one goroutine
// per match owns the board and all participant metadata, and is the only
// code that ever mutates it. Everything else - the registry, the
// matchmaking queue, the websocket dispatcher - talks to a Game only
// through its exported methods, each of which is a message sent down a
// single mailbox channel and processed in submission order.
package session

import (
	"encoding/json"
	"fmt"

	"dama"
	"dama/rules"
)

// Conn is the narrow interface a transport connection must satisfy to
// receive frames pushed by a Game. Implementations must not block for
// long, and must be safe to call from the game's own goroutine.
type Conn interface {
	Send(frame interface{})
	Close() error
}

// ParticipantSlot describes one side of a match.
type ParticipantSlot struct {
	UserID      string // empty for an anonymous participant
	DisplayName string
	Email       string
}

const waitingPlaceholder = "waiting..."

// NewParticipant builds a slot from a resolved user, or an anonymous
// placeholder slot when user is nil.
func NewParticipant(user *dama.User) *ParticipantSlot {
	if user == nil {
		return &ParticipantSlot{DisplayName: "Anonymous"}
	}
	name := user.Name
	if name == "" {
		name = "Anonymous"
	}
	return &ParticipantSlot{UserID: user.ID, DisplayName: name, Email: user.Email}
}

type side struct {
	slot *ParticipantSlot
	conn Conn
}

func (s *side) displayName() string {
	if s.slot == nil {
		return waitingPlaceholder
	}
	return s.slot.DisplayName
}

// Game is a single running (or just-finished) match. The zero value is
// not usable; construct with New.
type Game struct {
	ID string

	cmds chan func(*state)
	done chan struct{}

	stats dama.Stats
}

// state is the mutable data a Game's goroutine owns exclusively. No
// other goroutine ever touches it.
type state struct {
	board      dama.Board
	turn       dama.Color
	chainPiece *dama.Coord
	lastMove   *dama.Move
	result     *dama.Result

	white, black side

	game *Game
}

// New creates a match between white and black and starts its mailbox
// goroutine. stats may be nil, in which case results are not recorded.
func New(id string, white, black *ParticipantSlot, stats dama.Stats) *Game {
	g := &Game{
		ID:    id,
		cmds:  make(chan func(*state)),
		done:  make(chan struct{}),
		stats: stats,
	}
	st := &state{
		board: rules.InitialBoard(),
		turn:  dama.White,
		white: side{slot: white},
		black: side{slot: black},
		game:  g,
	}
	go g.run(st)
	return g
}

// run is the mailbox loop: every mutation of st happens here, and only
// here, one command at a time.
func (g *Game) run(st *state) {
	defer close(g.done)
	for cmd := range g.cmds {
		cmd(st)
		if st.result != nil {
			return
		}
	}
}

// Done reports, via closure, when the game's goroutine has exited after
// a terminal result.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// submit enqueues fn to run on the mailbox goroutine and blocks until it
// has executed. It is a no-op if the game has already finished and its
// goroutine has exited.
func (g *Game) submit(fn func(*state)) {
	done := make(chan struct{})
	select {
	case g.cmds <- func(st *state) {
		fn(st)
		close(done)
	}:
		<-done
	case <-g.done:
	}
}

func sideFor(st *state, color dama.Color) *side {
	if color == dama.White {
		return &st.white
	}
	return &st.black
}

// Attach associates conn with color, replacing that side's participant
// metadata with slot when slot is non-nil, and immediately pushes the
// current state to every connected participant.
func (g *Game) Attach(color dama.Color, slot *ParticipantSlot, conn Conn) {
	g.submit(func(st *state) {
		s := sideFor(st, color)
		if slot != nil {
			s.slot = slot
		}
		s.conn = conn
		broadcastState(st)
	})
}

// Detach clears the connection recorded for color, leaving the match
// itself untouched so the player may reconnect.
func (g *Game) Detach(color dama.Color, conn Conn) {
	g.submit(func(st *state) {
		s := sideFor(st, color)
		if s.conn == conn {
			s.conn = nil
		}
	})
}

// RequestState pushes the current snapshot to color alone.
func (g *Game) RequestState(color dama.Color) {
	g.submit(func(st *state) {
		s := sideFor(st, color)
		if s.conn != nil {
			s.conn.Send(buildStatePayload(st))
		}
	})
}

// Move validates and, if legal, applies a single ply by color, then
// broadcasts the resulting state and, if the ply ended the game,
// finalizes the match.
func (g *Game) Move(color dama.Color, from, to dama.Coord) error {
	var outcome error
	g.submit(func(st *state) {
		if st.result != nil {
			outcome = fmt.Errorf("session: game %s is already over", st.game.ID)
			return
		}
		if st.turn != color {
			outcome = fmt.Errorf("session: it is not %s's turn", color)
			broadcastState(st)
			return
		}

		valid, isCapture := rules.ValidateMove(st.board, st.chainPiece, from, to, color)
		if !valid {
			outcome = fmt.Errorf("session: illegal move %s -> %s", from, to)
			broadcastState(st)
			return
		}

		rules.ApplyMove(&st.board, from, to, isCapture)
		st.lastMove = &dama.Move{From: from, To: to}
		st.chainPiece = nil

		turnEnds := true
		if isCapture && rules.CanCaptureFrom(st.board, to, color) {
			landed := to
			st.chainPiece = &landed
			turnEnds = false
		}

		if turnEnds {
			st.turn = color.Opponent()
			if result := rules.CheckTerminal(st.board, color); result != nil {
				broadcastState(st)
				finalize(st, result)
				return
			}
		}

		broadcastState(st)
	})
	return outcome
}

// Surrender ends the match immediately in favor of color's opponent.
func (g *Game) Surrender(color dama.Color) {
	g.submit(func(st *state) {
		if st.result != nil {
			return
		}
		winner := color.Opponent()
		finalize(st, &dama.Result{Winner: &winner, Reason: dama.Surrender})
	})
}

// Chat relays text to the opponent of color, tagged with the sender's
// display name, as spec.md's chat relay requires.
func (g *Game) Chat(color dama.Color, text string) {
	g.submit(func(st *state) {
		sender := sideFor(st, color)
		opponent := sideFor(st, color.Opponent())
		if opponent.conn == nil {
			return
		}
		opponent.conn.Send(ChatFrame{
			Type:   "chat",
			Sender: sender.displayName(),
			Text:   text,
		})
	})
}

// Signal relays an opaque WebRTC-style signaling payload to the
// opponent of color, unmodified.
func (g *Game) Signal(color dama.Color, payload json.RawMessage) {
	g.submit(func(st *state) {
		opponent := sideFor(st, color.Opponent())
		if opponent.conn == nil {
			return
		}
		opponent.conn.Send(SignalFrame{Type: "signal", Payload: payload})
	})
}

func finalize(st *state, result *dama.Result) {
	st.result = result

	msg := GameOverFrame{Type: "game_over", Reason: result.Reason.String()}
	if result.Winner != nil {
		msg.Winner = result.Winner.String()
	} else {
		msg.Winner = "draw"
	}
	if st.white.conn != nil {
		st.white.conn.Send(msg)
		st.white.conn.Close()
	}
	if st.black.conn != nil {
		st.black.conn.Send(msg)
		st.black.conn.Close()
	}

	recordStats(st, result)
}

func recordStats(st *state, result *dama.Result) {
	if st.game.stats == nil {
		return
	}
	whiteResult, blackResult := dama.DrawResult, dama.DrawResult
	if result.Winner != nil {
		if *result.Winner == dama.White {
			whiteResult, blackResult = dama.Win, dama.Loss
		} else {
			whiteResult, blackResult = dama.Loss, dama.Win
		}
	}
	if st.white.slot != nil && st.white.slot.UserID != "" {
		st.game.stats.RecordResult(st.white.slot.UserID, whiteResult)
	}
	if st.black.slot != nil && st.black.slot.UserID != "" {
		st.game.stats.RecordResult(st.black.slot.UserID, blackResult)
	}
}

func broadcastState(st *state) {
	payload := buildStatePayload(st)
	if st.white.conn != nil {
		st.white.conn.Send(payload)
	}
	if st.black.conn != nil {
		st.black.conn.Send(payload)
	}
}
