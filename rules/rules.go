// Move legality, chained captures, move application and terminal
// detection.
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

package rules

import "dama"

// CanCaptureFrom reports whether the piece at pos, which must belong to
// color, has an immediate two-square jump over an adjacent opposing
// piece landing on an empty square. Only this short-jump form is
// detected here (and so by the mandatory-capture and chain checks);
// ValidateMove itself also accepts a longer capture over a single
// opposing piece. See DESIGN.md.
func CanCaptureFrom(b dama.Board, pos dama.Coord, color dama.Color) bool {
	p := b[pos.R][pos.C]
	if p == nil || p.Color != color {
		return false
	}
	for _, d := range diagonals {
		mid := dama.Coord{R: pos.R + d.R, C: pos.C + d.C}
		land := dama.Coord{R: pos.R + 2*d.R, C: pos.C + 2*d.C}
		if !land.InBounds() || b[land.R][land.C] != nil {
			continue
		}
		victim := b[mid.R][mid.C]
		if victim != nil && victim.Color != color {
			return true
		}
	}
	return false
}

// AnyCaptureAvailable reports whether any piece of color can capture.
func AnyCaptureAvailable(b dama.Board, color dama.Color) bool {
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			pos := dama.Coord{R: r, C: c}
			if p := b[r][c]; p != nil && p.Color == color && CanCaptureFrom(b, pos, color) {
				return true
			}
		}
	}
	return false
}

// CanMoveSimply reports whether the piece at pos has at least one
// non-capturing move available: any adjacent empty diagonal for a king,
// an empty forward diagonal for a man.
func CanMoveSimply(b dama.Board, pos dama.Coord, color dama.Color) bool {
	p := b[pos.R][pos.C]
	if p == nil || p.Color != color {
		return false
	}
	if p.King {
		for _, d := range diagonals {
			n := dama.Coord{R: pos.R + d.R, C: pos.C + d.C}
			if n.InBounds() && b[n.R][n.C] == nil {
				return true
			}
		}
		return false
	}
	forward := forwardDir(color)
	for _, dc := range [2]int{-1, 1} {
		n := dama.Coord{R: pos.R + forward, C: pos.C + dc}
		if n.InBounds() && b[n.R][n.C] == nil {
			return true
		}
	}
	return false
}

// HasLegalMove reports whether color has any legal move at all, capture
// or simple.
func HasLegalMove(b dama.Board, color dama.Color) bool {
	if AnyCaptureAvailable(b, color) {
		return true
	}
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			pos := dama.Coord{R: r, C: c}
			if p := b[r][c]; p != nil && p.Color == color && CanMoveSimply(b, pos, color) {
				return true
			}
		}
	}
	return false
}

// ValidateMove checks whether color may play from->to given the current
// board and an optional pinned chain piece (non-nil during a multi-jump
// sequence). It reports whether the move is legal at all, and if so
// whether it is a capture.
func ValidateMove(b dama.Board, chainPiece *dama.Coord, from, to dama.Coord, color dama.Color) (valid, isCapture bool) {
	if !from.InBounds() || !to.InBounds() || b[to.R][to.C] != nil {
		return false, false
	}
	piece := b[from.R][from.C]
	if piece == nil || piece.Color != color {
		return false, false
	}
	if chainPiece != nil && from != *chainPiece {
		return false, false
	}

	dr := to.R - from.R
	dc := to.C - from.C
	if dr == 0 || abs(dr) != abs(dc) {
		return false, false
	}

	hasCapture := AnyCaptureAvailable(b, color)

	if abs(dr) >= 2 {
		stepR, stepC := sign(dr), sign(dc)
		var enemies, friends int
		for r, c := from.R+stepR, from.C+stepC; r != to.R; r, c = r+stepR, c+stepC {
			switch p := b[r][c]; {
			case p == nil:
			case p.Color == color:
				friends++
			default:
				enemies++
			}
		}
		switch {
		case enemies == 1 && friends == 0:
			// A capture may be backward and is always allowed
			// regardless of the mandatory-capture check, since it
			// satisfies it.
			return true, true
		case piece.King && enemies == 0 && friends == 0:
			// A fully clear diagonal: a flying-king slide, which
			// counts as a simple move.
			if chainPiece != nil || hasCapture {
				return false, false
			}
			return true, false
		default:
			return false, false
		}
	}

	// abs(dr) == 1: a single-step simple move.
	if chainPiece != nil || hasCapture {
		return false, false
	}
	if piece.King {
		return true, false
	}
	if dr == forwardDir(color) {
		return true, false
	}
	return false, false
}

// ApplyMove mutates b in place: relocates the piece, removes a captured
// piece when isCapture is set, and promotes on reaching the back rank.
func ApplyMove(b *dama.Board, from, to dama.Coord, isCapture bool) {
	p := b[from.R][from.C]

	if isCapture {
		stepR, stepC := sign(to.R-from.R), sign(to.C-from.C)
		for r, c := from.R+stepR, from.C+stepC; r != to.R; r, c = r+stepR, c+stepC {
			if b[r][c] != nil {
				b[r][c] = nil
				break
			}
		}
	}

	b[from.R][from.C] = nil
	b[to.R][to.C] = p

	if !p.King {
		if (p.Color == dama.White && to.R == 0) || (p.Color == dama.Black && to.R == dama.BoardSize-1) {
			p.King = true
		}
	}
}

// CheckTerminal evaluates whether the game is over from the point of
// view of the player who just moved (justMoved), returning nil if play
// continues.
func CheckTerminal(b dama.Board, justMoved dama.Color) *dama.Result {
	opponent := justMoved.Opponent()

	if countPieces(b, opponent) == 0 {
		w := justMoved
		return &dama.Result{Winner: &w, Reason: dama.Annihilation}
	}

	opponentHasMove := HasLegalMove(b, opponent)
	selfHasMove := HasLegalMove(b, justMoved)

	switch {
	case !opponentHasMove && selfHasMove:
		w := justMoved
		return &dama.Result{Winner: &w, Reason: dama.Blockade}
	case !opponentHasMove && !selfHasMove:
		return &dama.Result{Reason: dama.Stalemate}
	default:
		return nil
	}
}
