// HTTP server assembly.
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
	"fmt"
	"net/http"
	"time"

	"dama"
	"dama/matchmaking"
	"dama/registry"
)

// Server is the conf.Manager wrapping the HTTP/WebSocket listener.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer builds the mux routing /ws/matchmaking, /ws/game/ and
// /healthz, listening on addr (e.g. ":8080"). pingInterval and
// idleTimeout govern both endpoints' keepalive: each connection is
// pinged every pingInterval, and dropped if idleTimeout passes without a
// pong or any other read from it.
func NewServer(addr string, queue *matchmaking.Queue, reg *registry.Registry, authn dama.Auth, pingInterval, idleTimeout time.Duration) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/matchmaking", MatchmakingHandler(queue, authn, pingInterval, idleTimeout))
	mux.HandleFunc("/ws/game/", GameHandler(reg, authn, pingInterval, idleTimeout))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok, %d games in progress\n", reg.Count())
	})

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

func (*Server) String() string { return "HTTP/WebSocket server" }

// Start runs the server until Shutdown is called. It is meant to be
// launched with `go`, per conf.Conf.Start's manager convention.
func (s *Server) Start() {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		dama.Debug.Printf("transport: server exited: %s", err)
	}
}

// Shutdown stops the server at once, closing its listener and any
// connections that were not upgraded to websockets; already-upgraded
// websocket connections are not closed by it.
func (s *Server) Shutdown() {
	if err := s.srv.Close(); err != nil {
		dama.Debug.Printf("transport: shutdown error: %s", err)
	}
}
