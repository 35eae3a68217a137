// Per-game websocket endpoint.
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
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dama"
	"dama/registry"
)

func parseGamePath(prefix, path string) (gameID, color string, ok bool) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseColor(s string) (dama.Color, bool) {
	switch s {
	case "white":
		return dama.White, true
	case "black":
		return dama.Black, true
	default:
		return dama.White, false
	}
}

// GameHandler upgrades connections to /ws/game/{game_id}/{color} and
// wires them to the matching session.Game for the lifetime of the
// connection.
func GameHandler(reg *registry.Registry, authn dama.Auth, pingInterval, idleTimeout time.Duration) http.HandlerFunc {
	const prefix = "/ws/game/"
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, colorStr, ok := parseGamePath(prefix, r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		color, ok := parseColor(colorStr)
		if !ok {
			http.Error(w, "unknown color", http.StatusBadRequest)
			return
		}

		game, gameOK := reg.Lookup(gameID)

		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			dama.Debug.Printf("transport: game upgrade failed: %s", err)
			return
		}

		if !gameOK {
			closeUnknownGame(raw)
			return
		}

		conn := newWSConn(raw, idleTimeout)
		defer conn.Close()

		done := make(chan struct{})
		defer close(done)
		go conn.Pinger(pingInterval, done)

		slot := resolveIdentity(r, authn)
		game.Attach(color, slot, conn)
		defer game.Detach(color, conn)

		for {
			_, data, err := raw.ReadMessage()
			if err != nil {
				return
			}

			var frame clientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				dama.Debug.Printf("transport: malformed frame from %s: %s", r.RemoteAddr, err)
				continue
			}

			switch frame.Type {
			case "move":
				if frame.From == nil || frame.To == nil {
					continue
				}
				if err := game.Move(color, *frame.From, *frame.To); err != nil {
					dama.Debug.Print(err)
				}
			case "surrender":
				game.Surrender(color)
			case "chat":
				game.Chat(color, frame.Text)
			case "signal":
				game.Signal(color, frame.Payload)
			case "request_state":
				game.RequestState(color)
			default:
				dama.Debug.Printf("transport: unknown frame type %q", frame.Type)
			}
		}
	}
}
