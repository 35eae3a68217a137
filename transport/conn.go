// Websocket connection wrapper: a mutex-guarded Send plus a read loop
// that decodes client frames and dispatches them.
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
// Copyright (c) 2021  Tom Wiesing
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

// Package transport implements the Connection Endpoint component: the
// websocket upgrade handlers for the matchmaking and per-game routes,
// identity resolution, and the JSON frame protocol that drives
// dama/matchmaking and dama/session.
package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dama"
)

// wsConn wraps a *websocket.Conn with a lock around writes, since
// gorilla/websocket forbids concurrent writers, and satisfies both
// session.Conn and matchmaking.Conn (both are the Send(interface{}) /
// Close() error shape).
type wsConn struct {
	conn *websocket.Conn
	lock sync.Mutex
}

// newWSConn wraps conn and arms the idle-timeout read deadline: if
// idleTimeout passes with nothing read from the socket, not even a pong,
// the blocking ReadMessage call in the handler's read loop fails and the
// connection is torn down.
func newWSConn(conn *websocket.Conn, idleTimeout time.Duration) *wsConn {
	c := &wsConn{conn: conn}
	conn.SetReadDeadline(time.Now().Add(idleTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		return nil
	})
	return c
}

// Pinger periodically writes a websocket ping control frame, mirroring
// the teacher's Client.Pinger loop but relying on gorilla/websocket's
// built-in ping/pong control frames rather than a text message, since the
// pong handler already resets the read deadline set up in newWSConn. It
// returns once done is closed or a write fails, which it treats as the
// connection already being gone.
func (c *wsConn) Pinger(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		c.lock.Lock()
		err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		c.lock.Unlock()
		if err != nil {
			dama.Debug.Printf("transport: ping failed: %s", err)
			return
		}
	}
}

// Send marshals frame to JSON and writes it as a single text message.
// Errors are logged and swallowed: a dead connection is discovered by
// the read loop, not by the writer.
func (c *wsConn) Send(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		dama.Debug.Printf("transport: failed to marshal frame: %s", err)
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		dama.Debug.Printf("transport: write failed: %s", err)
	}
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

// unknownGameCloseCode is the close code spec.md assigns to attaching to
// a game id the registry has never heard of.
const unknownGameCloseCode = 4000

// closeUnknownGame sends a close frame with unknownGameCloseCode and
// shuts the socket down. The handshake has already happened by the time
// this is called, mirroring original_source/app/routes/game.py, which
// always accepts the websocket before connect_player can reject it.
func closeUnknownGame(raw *websocket.Conn) {
	msg := websocket.FormatCloseMessage(unknownGameCloseCode, "unknown game")
	raw.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	raw.Close()
}

// clientFrame is the envelope every inbound message is decoded into
// before being routed by its Type.
type clientFrame struct {
	Type string `json:"type"`

	From *dama.Coord `json:"from"`
	To   *dama.Coord `json:"to"`

	Text string `json:"text"`

	Payload json.RawMessage `json:"payload"`
}
