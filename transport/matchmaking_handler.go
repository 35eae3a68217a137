// Matchmaking websocket endpoint.
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

package transport

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"dama"
	"dama/matchmaking"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// MatchmakingHandler upgrades the connection, enqueues it, and holds the
// socket open (discarding anything the client sends) until it
// disconnects, at which point it is removed from the queue.
func MatchmakingHandler(queue *matchmaking.Queue, authn dama.Auth, pingInterval, idleTimeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			dama.Debug.Printf("transport: matchmaking upgrade failed: %s", err)
			return
		}
		conn := newWSConn(raw, idleTimeout)
		defer conn.Close()

		done := make(chan struct{})
		defer close(done)
		go conn.Pinger(pingInterval, done)

		slot := resolveIdentity(r, authn)
		queue.Enqueue(conn, slot)
		defer queue.Forget(conn)

		for {
			if _, _, err := raw.ReadMessage(); err != nil {
				return
			}
		}
	}
}
