// Sqlite-backed persistence: user lookup and win/loss/draw stats.
//
// Copyright (c) 2021, 2022, 2023  Philip Kaludercic
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

// Package store is the reference dama.Auth.ResolveUserByID / dama.Stats
// adapter backed by sqlite. It is wired only at the cmd/damaserver level;
// no package under dama/rules, dama/session, dama/registry or
// dama/matchmaking imports it, since those only ever see the dama.Auth
// and dama.Stats interfaces.
package store

import (
	"database/sql"
	"embed"
	"errors"
	"log"
	"path"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"dama"
)

//go:embed *.sql
var sqlDir embed.FS

// Store implements dama.Auth's ResolveUserByID half and dama.Stats
// against a single sqlite file, read and write connections split exactly
// as the teacher's db package splits them.
type Store struct {
	read  *sql.DB
	write *sql.DB

	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt
}

// Open creates (or reuses) the sqlite database at path, runs its schema,
// and prepares every statement under the package's embedded *.sql
// directory.
func Open(dsn string) (*Store, error) {
	read, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	s := &Store{
		read:     read,
		write:    write,
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
	}

	for _, pragma := range []string{
		"journal_mode = WAL",
		"synchronous = normal",
		"temp_store = memory",
		"foreign_keys = on",
	} {
		if _, err := s.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return nil, err
		}
	}

	if err := s.loadStatements(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadStatements() error {
	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		base := path.Base(entry.Name())
		data, err := sqlDir.ReadFile(entry.Name())
		if err != nil {
			return err
		}

		switch {
		case strings.HasPrefix(base, "create-") || strings.HasPrefix(base, "run-"):
			_, err = s.write.Exec(string(data))
			dama.Debug.Printf("executed %s", base)
		case strings.HasPrefix(base, "select-"):
			name := strings.TrimSuffix(base, ".sql")
			s.queries[name], err = s.read.Prepare(string(data))
			dama.Debug.Printf("registered query %s", name)
		default:
			name := strings.TrimSuffix(base, ".sql")
			s.commands[name], err = s.write.Prepare(string(data))
			dama.Debug.Printf("registered command %s", name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ResolveUserByID implements the lookup half of dama.Auth.
func (s *Store) ResolveUserByID(id string) (*dama.User, bool) {
	var u dama.User
	u.ID = id
	err := s.queries["select-user"].QueryRow(id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Print(err)
		}
		return nil, false
	}
	return &u, true
}

// RecordResult implements dama.Stats, upserting the user's running
// win/loss/draw counters.
func (s *Store) RecordResult(userID string, result dama.PlayerResult) {
	if userID == "" {
		return
	}
	var stmt string
	switch result {
	case dama.Win:
		stmt = "record-win"
	case dama.Loss:
		stmt = "record-loss"
	default:
		stmt = "record-draw"
	}
	if _, err := s.commands[stmt].Exec(userID); err != nil {
		log.Print(err)
	}
}

// String identifies this manager for conf's lifecycle logging.
func (*Store) String() string { return "sqlite store" }

// Start is a no-op: all setup happens in Open.
func (*Store) Start() {}

// Shutdown runs a final PRAGMA optimize and closes both connections.
func (s *Store) Shutdown() {
	if _, err := s.write.Exec("PRAGMA optimize;"); err != nil {
		log.Print(err)
	}
	if err := s.write.Close(); err != nil {
		log.Print(err)
	}
	if err := s.read.Close(); err != nil {
		log.Print(err)
	}
}
