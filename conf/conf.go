// Configuration specification and management.
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

// Package conf holds the server's runtime configuration: the TOML file
// shape read from disk, the flag-overridable defaults, and the manager
// lifecycle (Register/Start) that the cmd/damaserver entrypoint drives.
package conf

import (
	"context"
	"flag"
	"io"
	"log"
	"time"
)

// toplevel is the on-disk configuration shape.
type toplevel struct {
	Debug    bool `toml:"debug"`
	Database struct {
		File string `toml:"file"`
	} `toml:"database"`
	HTTP struct {
		Port         uint `toml:"port"`
		PingInterval uint `toml:"ping_interval"`
		IdleTimeout  uint `toml:"idle_timeout"`
	} `toml:"http"`
	Auth struct {
		JWTSecret string `toml:"jwt_secret"`
	} `toml:"auth"`
}

// Conf is the configuration object passed to every component at
// startup.
type Conf struct {
	Log   *log.Logger
	Debug *log.Logger
	Ctx   context.Context
	Kill  context.CancelFunc

	// Transport configuration
	HTTPPort     uint
	PingInterval time.Duration
	IdleTimeout  time.Duration

	// Database configuration
	Database string

	// Auth configuration
	JWTSecret string

	man []Manager
	run bool
}

var defaultConfig = Conf{
	Log:   log.Default(),
	Debug: log.New(io.Discard, "[debug] ", log.Ltime|log.Lshortfile|log.Lmicroseconds),

	HTTPPort:     8080,
	PingInterval: 30 * time.Second,
	IdleTimeout:  90 * time.Second,

	Database: "dama.db",
}

var (
	debugFlag bool
	dumpFlag  bool
	cfile     = "dama.toml"
)

func init() {
	flag.UintVar(&defaultConfig.HTTPPort, "port", defaultConfig.HTTPPort,
		"Port to use for the HTTP/WebSocket server")
	flag.StringVar(&defaultConfig.Database, "db", defaultConfig.Database,
		"File to use for the sqlite database")
	flag.StringVar(&defaultConfig.JWTSecret, "jwt-secret", defaultConfig.JWTSecret,
		"Secret key used to verify session cookies")
	flag.BoolVar(&debugFlag, "debug", debugFlag, "Enable debug output")
	flag.BoolVar(&dumpFlag, "dump-config", dumpFlag, "Dump configuration to standard output and exit")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}
