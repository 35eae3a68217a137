package rules

import (
	"testing"

	"dama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialBoardPieceCount(t *testing.T) {
	b := InitialBoard()
	assert.Equal(t, 12, countPieces(b, dama.White))
	assert.Equal(t, 12, countPieces(b, dama.Black))
}

func TestInitialBoardOnlyDarkSquares(t *testing.T) {
	b := InitialBoard()
	for r := 0; r < dama.BoardSize; r++ {
		for c := 0; c < dama.BoardSize; c++ {
			pos := dama.Coord{R: r, C: c}
			if b[r][c] != nil {
				assert.True(t, pos.Dark(), "piece on light square %v", pos)
			}
		}
	}
}

// Scenario: opening move, a plain diagonal step forward, is legal and is
// not a capture.
func TestValidateMoveOpeningStep(t *testing.T) {
	b := InitialBoard()
	from := dama.Coord{R: 5, C: 0}
	to := dama.Coord{R: 4, C: 1}
	valid, isCapture := ValidateMove(b, nil, from, to, dama.White)
	require.True(t, valid)
	assert.False(t, isCapture)
}

// Scenario: mandatory capture enforcement. With a capture on the board, a
// simple step elsewhere must be rejected even though it would otherwise
// be legal.
func TestValidateMoveMandatoryCapture(t *testing.T) {
	var b dama.Board
	b[4][3] = &dama.Piece{Color: dama.White}
	b[3][4] = &dama.Piece{Color: dama.Black}
	b[7][0] = &dama.Piece{Color: dama.White}

	require.True(t, AnyCaptureAvailable(b, dama.White))

	valid, _ := ValidateMove(b, nil, dama.Coord{R: 7, C: 0}, dama.Coord{R: 6, C: 1}, dama.White)
	assert.False(t, valid, "non-capturing move must be rejected while a capture is available")

	valid, isCapture := ValidateMove(b, nil, dama.Coord{R: 4, C: 3}, dama.Coord{R: 2, C: 5}, dama.White)
	assert.True(t, valid)
	assert.True(t, isCapture)
}

// Scenario: chained capture. After landing mid-chain, only the same piece
// may move, and only via a further capture.
func TestValidateMoveChainPins(t *testing.T) {
	var b dama.Board
	// White piece has just landed at (2,5) after a first jump, with a
	// second enemy piece available for a follow-up jump.
	b[2][5] = &dama.Piece{Color: dama.White}
	b[3][6] = &dama.Piece{Color: dama.Black}
	b[6][0] = &dama.Piece{Color: dama.White}

	pinned := dama.Coord{R: 2, C: 5}

	valid, _ := ValidateMove(b, &pinned, dama.Coord{R: 6, C: 0}, dama.Coord{R: 5, C: 1}, dama.White)
	assert.False(t, valid, "a piece other than the pinned chain piece cannot move")

	valid, isCapture := ValidateMove(b, &pinned, pinned, dama.Coord{R: 4, C: 7}, dama.White)
	require.True(t, valid)
	assert.True(t, isCapture)
}

func TestApplyMovePromotesOnBackRank(t *testing.T) {
	var b dama.Board
	b[1][2] = &dama.Piece{Color: dama.White}
	ApplyMove(&b, dama.Coord{R: 1, C: 2}, dama.Coord{R: 0, C: 1}, false)
	require.NotNil(t, b[0][1])
	assert.True(t, b[0][1].King)
	assert.Nil(t, b[1][2])
}

func TestApplyMoveRemovesCapturedPiece(t *testing.T) {
	var b dama.Board
	b[4][3] = &dama.Piece{Color: dama.White}
	b[3][4] = &dama.Piece{Color: dama.Black}
	ApplyMove(&b, dama.Coord{R: 4, C: 3}, dama.Coord{R: 2, C: 5}, true)
	assert.Nil(t, b[3][4])
	assert.Nil(t, b[4][3])
	require.NotNil(t, b[2][5])
	assert.Equal(t, dama.White, b[2][5].Color)
}

// Scenario: annihilation. Removing the opponent's last piece ends the
// game immediately in the mover's favor.
func TestCheckTerminalAnnihilation(t *testing.T) {
	var b dama.Board
	b[2][5] = &dama.Piece{Color: dama.White}

	result := CheckTerminal(b, dama.White)
	require.NotNil(t, result)
	assert.Equal(t, dama.Annihilation, result.Reason)
	require.NotNil(t, result.Winner)
	assert.Equal(t, dama.White, *result.Winner)
}

func TestCheckTerminalBlockade(t *testing.T) {
	var b dama.Board
	// White king sits in the corner, where (1,1) is its only in-bounds
	// diagonal; occupying both (1,1) and its landing square (2,2) removes
	// every simple move and every capture. Black keeps a free piece
	// elsewhere so black still has a legal move.
	b[0][0] = &dama.Piece{Color: dama.White, King: true}
	b[1][1] = &dama.Piece{Color: dama.Black}
	b[2][2] = &dama.Piece{Color: dama.Black}
	b[6][3] = &dama.Piece{Color: dama.Black}

	result := CheckTerminal(b, dama.Black)
	require.NotNil(t, result)
	assert.Equal(t, dama.Blockade, result.Reason)
	require.NotNil(t, result.Winner)
	assert.Equal(t, dama.Black, *result.Winner)
}

func TestCheckTerminalContinues(t *testing.T) {
	b := InitialBoard()
	assert.Nil(t, CheckTerminal(b, dama.White))
}
