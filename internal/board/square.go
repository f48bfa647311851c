// Package board implements the chess rules engine: an 8x8 mailbox position with
// pseudo-legal move generation, a make/unmake legality filter, castling-rights
// history and en-passant tracking.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Squares are numbered row-major from black's back rank: A8=0, H8=7, A1=56, H1=63.
// Row 0 is rank 8 and row 7 is rank 1; column 0 is the a-file.
type Square uint8

// Square constants for all 64 squares.
const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	NoSquare Square = 64
)

// Row returns the board row (0-7, where 0 is rank 8).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the board column (0-7, where 0 is the a-file).
func (sq Square) Col() int {
	return int(sq) & 7
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '8'-sq.Row())
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Offset returns the square dr rows and dc columns away, and false if that
// falls off the board.
func (sq Square) Offset(dr, dc int) (Square, bool) {
	r, c := sq.Row()+dr, sq.Col()+dc
	if r < 0 || r > 7 || c < 0 || c > 7 {
		return NoSquare, false
	}
	return Square(r*8 + c), true
}

// SquareAt returns the square at the given row and column.
func SquareAt(row, col int) (Square, error) {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare, fmt.Errorf("%w: row %d col %d", ErrInvalidSquare, row, col)
	}
	return Square(row*8 + col), nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	col := int(s[0]) - 'a'
	row := '8' - int(s[1])
	sq, err := SquareAt(row, col)
	if err != nil {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}
