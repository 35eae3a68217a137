// Board setup and small geometric helpers for the Dama Voadora rules
// engine.
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

// Package rules implements the pure, side-effect-free checkers rules
// engine: legality of a single move, chained-capture detection, move
// application, and terminal-condition detection. Every function here
// takes a board snapshot (or a pointer for ApplyMove) and has no
// knowledge of sessions, connections, or the network.
package rules

import "dama"

// InitialBoard returns the standard Dama Voadora starting position:
// black on rows 0-2, white on rows 5-7, dark squares only.
func InitialBoard() dama.Board {
	var b dama.Board
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			pos := dama.Coord{R: r, C: c}
			if !pos.Dark() {
				continue
			}
			switch {
			case r < 3:
				b[r][c] = &dama.Piece{Color: dama.Black}
			case r > 4:
				b[r][c] = &dama.Piece{Color: dama.White}
			}
		}
	}
	return b
}

// CopyBoard returns an independent copy, so callers may speculatively
// mutate it without touching the original.
func CopyBoard(b dama.Board) dama.Board {
	var out dama.Board
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			if p := b[r][c]; p != nil {
				cp := *p
				out[r][c] = &cp
			}
		}
	}
	return out
}

var diagonals = [4]dama.Coord{{R: -1, C: -1}, {R: -1, C: 1}, {R: 1, C: -1}, {R: 1, C: 1}}

func forwardDir(color dama.Color) int {
	if color == dama.White {
		return -1
	}
	return 1
}

func countPieces(b dama.Board, color dama.Color) int {
	n := 0
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			if p := b[r][c]; p != nil && p.Color == color {
				n++
			}
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
