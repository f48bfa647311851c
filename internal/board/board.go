package board

import "strings"

// Board is the 8x8 grid of pieces, indexed [row][col]. Row 0 is rank 8.
type Board [8][8]Piece

// At returns the piece on sq, or NoPiece if it is empty or off the board.
func (b *Board) At(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b[sq.Row()][sq.Col()]
}

// Set places pc on sq; NoPiece empties the square. Squares off the board are ignored.
func (b *Board) Set(sq Square, pc Piece) {
	if !sq.IsValid() {
		return
	}
	b[sq.Row()][sq.Col()] = pc
}

// standardBoard is the initial setup, white at the bottom (rows 6 and 7).
func standardBoard() Board {
	var b Board
	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col, pt := range backRank {
		b[0][col] = NewPiece(pt, Black)
		b[1][col] = BlackPawn
		b[6][col] = WhitePawn
		b[7][col] = NewPiece(pt, White)
	}
	return b
}

// String draws the board with rank and file labels.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte('8' - byte(row))
		sb.WriteString("  ")
		for col := 0; col < 8; col++ {
			sb.WriteString(b[row][col].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
