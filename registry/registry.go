// Session registry: a concurrency-safe lookup table from game id to the
// running session.Game that owns it.
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

// Package registry tracks every in-progress game by id behind its own
// lock, separate from any lock a session.Game might hold internally. No
// registry method ever blocks on session I/O or on a mailbox round trip.
package registry

import (
	"sync"

	"dama/session"
)

// Registry maps game ids to the session.Game instance serving them.
type Registry struct {
	mu    sync.RWMutex
	games map[string]*session.Game
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{games: make(map[string]*session.Game)}
}

// Add registers g under id, and arranges for it to be removed
// automatically once the game finishes.
func (r *Registry) Add(id string, g *session.Game) {
	r.mu.Lock()
	r.games[id] = g
	r.mu.Unlock()

	go func() {
		<-g.Done()
		r.remove(id, g)
	}()
}

func (r *Registry) remove(id string, g *session.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.games[id]; ok && cur == g {
		delete(r.games, id)
	}
}

// Lookup returns the game registered under id, if any.
func (r *Registry) Lookup(id string) (*session.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// Count reports how many games are currently registered.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
