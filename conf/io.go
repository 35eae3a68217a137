// Configuration loading and dumping.
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
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"dama"
)

func load(r io.Reader) (*Conf, error) {
	var data toplevel
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, err
	}

	c := defaultConfig
	if debugFlag {
		c.Log.SetOutput(os.Stderr)
		c.Debug.SetOutput(os.Stderr)
	}
	if data.HTTP.Port != 0 {
		c.HTTPPort = data.HTTP.Port
	}
	if data.HTTP.PingInterval != 0 {
		c.PingInterval = time.Duration(data.HTTP.PingInterval) * time.Second
	}
	if data.HTTP.IdleTimeout != 0 {
		c.IdleTimeout = time.Duration(data.HTTP.IdleTimeout) * time.Second
	}
	if data.Database.File != "" {
		c.Database = data.Database.File
	}
	if data.Auth.JWTSecret != "" {
		c.JWTSecret = data.Auth.JWTSecret
	}

	return &c, nil
}

// Load reads the configuration file named by -conf, falling back to the
// defaults if it does not exist. Flags change the defaults; a value set
// in the configuration file takes precedence over them.
func Load() (c *Conf) {
	file, err := os.Open(cfile)
	switch {
	case err == nil:
		defer file.Close()
		c, err = load(file)
		if err != nil {
			log.Print(err)
			c = &defaultConfig
		}
	case os.IsNotExist(err):
		c = &defaultConfig
	default:
		log.Fatal(err)
	}

	if debugFlag {
		c.Log.SetOutput(os.Stderr)
		c.Debug.SetOutput(os.Stderr)
		dama.Debug.SetOutput(os.Stderr)
	}
	c.Ctx, c.Kill = context.WithCancel(context.Background())

	if dumpFlag {
		if err := c.Dump(os.Stdout); err != nil {
			log.Fatalln("failed to dump configuration:", err)
		}
		os.Exit(0)
	}

	return c
}

// Dump serializes c back into its TOML representation.
func (c *Conf) Dump(wr io.Writer) error {
	var data toplevel
	data.Debug = debugFlag
	data.Database.File = c.Database
	data.HTTP.Port = c.HTTPPort
	data.HTTP.PingInterval = uint(c.PingInterval / time.Second)
	data.HTTP.IdleTimeout = uint(c.IdleTimeout / time.Second)
	data.Auth.JWTSecret = c.JWTSecret
	return toml.NewEncoder(wr).Encode(data)
}
