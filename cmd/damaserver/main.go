// Entry point.
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

package main

import (
	"flag"
	"fmt"
	"log"

	"dama/auth"
	"dama/conf"
	"dama/matchmaking"
	"dama/registry"
	"dama/store"
	"dama/transport"
)

func main() {
	flag.Parse()

	c := conf.Load()

	st, err := store.Open(c.Database)
	if err != nil {
		log.Fatalf("failed to open database %s: %s", c.Database, err)
	}
	c.Register(st)

	var authenticator = auth.New([]byte(c.JWTSecret), st)

	reg := registry.New()
	queue := matchmaking.New(reg, st)

	addr := fmt.Sprintf(":%d", c.HTTPPort)
	server := transport.NewServer(addr, queue, reg, authenticator, c.PingInterval, c.IdleTimeout)
	c.Register(server)

	c.Debug.Printf("listening on %s", addr)
	c.Start()
}
