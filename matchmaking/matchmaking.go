// Matchmaking queue: pairs waiting clients into new game sessions on a
// strict first-in-first-out basis.
//
// Copyright (c) 2021  Philip Kaludercic
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

// Package matchmaking implements the waiting-room queue: a single
// goroutine owns the slice of waiting clients, exactly as the teacher's
// queueManager owns its client queue, so no lock is needed around the
// pairing decision.
package matchmaking

import (
	"github.com/google/uuid"

	"dama"
	"dama/registry"
	"dama/session"
)

// Conn is the narrow interface a matchmaking connection must satisfy.
type Conn interface {
	Send(frame interface{})
	Close() error
}

// MatchFoundFrame tells a waiting client which game and color it has
// been assigned; the client is expected to reconnect to the per-game
// endpoint using this information.
type MatchFoundFrame struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
	Color  string `json:"color"`
}

type waiter struct {
	conn Conn
	slot *session.ParticipantSlot
}

// Queue owns the FIFO waiting list and pairs clients into new games as
// they arrive.
type Queue struct {
	registry *registry.Registry
	stats    dama.Stats

	enqueue chan waiter
	forget  chan Conn
}

// New starts a queue's manager goroutine. Games paired by the queue are
// registered in reg, and their terminal results are reported through
// stats (which may be nil).
func New(reg *registry.Registry, stats dama.Stats) *Queue {
	q := &Queue{
		registry: reg,
		stats:    stats,
		enqueue:  make(chan waiter),
		forget:   make(chan Conn),
	}
	go q.run()
	return q
}

// Enqueue adds conn, representing slot, to the back of the waiting
// list. If another client is already waiting, the two are paired
// immediately into a new game.
func (q *Queue) Enqueue(conn Conn, slot *session.ParticipantSlot) {
	q.enqueue <- waiter{conn: conn, slot: slot}
}

// Forget removes conn from the waiting list, e.g. because the
// underlying connection closed before a match was found.
func (q *Queue) Forget(conn Conn) {
	q.forget <- conn
}

func (q *Queue) run() {
	var waiting []waiter

	for {
		select {
		case w := <-q.enqueue:
			waiting = append(waiting, w)
		case c := <-q.forget:
			waiting = remove(c, waiting)
		}

		for len(waiting) >= 2 {
			white, black := waiting[0], waiting[1]
			waiting = waiting[2:]
			q.pair(white, black)
		}
	}
}

func (q *Queue) pair(white, black waiter) {
	id := uuid.New().String()
	dama.Debug.Printf("pairing game %s: %s vs %s", id, white.slot.DisplayName, black.slot.DisplayName)

	g := session.New(id, white.slot, black.slot, q.stats)
	q.registry.Add(id, g)

	white.conn.Send(MatchFoundFrame{Type: "match_found", GameID: id, Color: dama.White.String()})
	black.conn.Send(MatchFoundFrame{Type: "match_found", GameID: id, Color: dama.Black.String()})

	// Force both clients to reconnect on the per-game endpoint.
	white.conn.Close()
	black.conn.Close()
}

func remove(conn Conn, waiting []waiter) []waiter {
	out := waiting[:0]
	for _, w := range waiting {
		if w.conn != conn {
			out = append(out, w)
		}
	}
	return out
}
