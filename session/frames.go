// Server-to-client JSON frame shapes.
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

package session

import (
	"encoding/json"

	"dama"
)

// PieceView is the wire representation of a single occupied square.
type PieceView struct {
	Color string `json:"color"`
	King  bool   `json:"king"`
}

// PlayerView is the wire representation of a participant slot.
type PlayerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    string `json:"id,omitempty"`
}

// PlayersView pairs both sides of the board for the state frame.
type PlayersView struct {
	White PlayerView `json:"white"`
	Black PlayerView `json:"black"`
}

// StateFrame is pushed to both participants after every accepted or
// rejected move and on attach, and to the requesting participant alone
// on an explicit request_state.
type StateFrame struct {
	Type         string        `json:"type"`
	Board        [8][8]*PieceView `json:"board"`
	Turn         string        `json:"turn"`
	ChainPiece   *dama.Coord   `json:"chain_piece,omitempty"`
	LastMoveFrom *dama.Coord   `json:"last_move_from,omitempty"`
	LastMoveTo   *dama.Coord   `json:"last_move_to,omitempty"`
	Players      PlayersView   `json:"players"`
}

// GameOverFrame is pushed exactly once to each participant when a match
// reaches a terminal result.
type GameOverFrame struct {
	Type   string `json:"type"`
	Winner string `json:"winner"` // "white", "black" or "draw"
	Reason string `json:"reason"`
}

// ChatFrame relays a chat message to the opponent.
type ChatFrame struct {
	Type   string `json:"type"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// SignalFrame relays an opaque signaling payload (e.g. WebRTC SDP/ICE
// exchange for voice chat) to the opponent, unmodified.
type SignalFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func buildStatePayload(st *state) *StateFrame {
	frame := &StateFrame{
		Type:       "update",
		Turn:       st.turn.String(),
		ChainPiece: st.chainPiece,
		Players: PlayersView{
			White: playerView(st.white),
			Black: playerView(st.black),
		},
	}
	if st.lastMove != nil {
		from, to := st.lastMove.From, st.lastMove.To
		frame.LastMoveFrom = &from
		frame.LastMoveTo = &to
	}
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			if p := st.board[r][c]; p != nil {
				frame.Board[r][c] = &PieceView{Color: p.Color.String(), King: p.King}
			}
		}
	}
	return frame
}

func playerView(s side) PlayerView {
	if s.slot == nil {
		return PlayerView{Name: waitingPlaceholder}
	}
	return PlayerView{Name: s.slot.DisplayName, Email: s.slot.Email, ID: s.slot.UserID}
}
