// Component lifecycle management.
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

package conf

import (
	"fmt"
	"os"
	"os/signal"
)

// Manager is a long-running component with an explicit start/stop
// lifecycle, started concurrently by Conf.Start and shut down in the
// order it was registered.
type Manager interface {
	fmt.Stringer
	Start()
	Shutdown()
}

// Register adds m to the set of managers started by Start. It must be
// called before Start.
func (c *Conf) Register(m Manager) {
	if c.run {
		panic(fmt.Sprintf("late register: %#v", m))
	}
	c.man = append(c.man, m)
}

// Start launches every registered manager and blocks until either an
// interrupt signal is received or c.Ctx is canceled, then shuts every
// manager down in registration order.
func (c *Conf) Start() {
	for _, m := range c.man {
		c.Debug.Printf("starting %s", m)
		go m.Start()
	}
	c.run = true

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	select {
	case <-intr:
		c.Debug.Println("caught interrupt")
	case <-c.Ctx.Done():
		c.Debug.Println("requested shutdown")
	}

	c.Debug.Println("waiting for managers to shut down...")
	for _, m := range c.man {
		c.Debug.Printf("shutting %s down", m)
		m.Shutdown()
	}
	c.Debug.Println("shut down")
}
