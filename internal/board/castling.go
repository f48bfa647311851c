package board

// CastlingRights is an immutable snapshot of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the rights as the usual KQkq letters, or "-" when none remain.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// homeRow is the back rank row of the given color.
func homeRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// cornerRight maps a rook's original corner to the right it guards.
func cornerRight(sq Square) CastlingRights {
	switch sq {
	case H1:
		return WhiteKingSideCastle
	case A1:
		return WhiteQueenSideCastle
	case H8:
		return BlackKingSideCastle
	case A8:
		return BlackQueenSideCastle
	}
	return NoCastling
}

// updatedRights returns the rights that remain after m is played.
// A king move drops both rights of its color; a rook leaving its corner, or
// being captured on it, drops the matching right.
func updatedRights(cr CastlingRights, m Move) CastlingRights {
	switch m.Moved.Type() {
	case King:
		cr &^= castleRight(m.Moved.Color(), true) | castleRight(m.Moved.Color(), false)
	case Rook:
		cr &^= cornerRight(m.From)
	}
	if m.Captured.Type() == Rook && !m.EnPassant {
		cr &^= cornerRight(m.To)
	}
	return cr
}

// rookSquares returns where the castling rook starts and lands for a castle
// move of the king from `from` to `to`.
func rookSquares(from, to Square) (rookFrom, rookTo Square) {
	row := from.Row()
	if to.Col() > from.Col() {
		return Square(row*8 + 7), Square(row*8 + to.Col() - 1)
	}
	return Square(row*8 + 0), Square(row*8 + to.Col() + 1)
}

// generateCastlingMoves appends the castle moves available to the king of color c.
func (p *Position) generateCastlingMoves(ml *MoveList, c Color) {
	ksq := p.kingSquare[c]
	if ksq == NoSquare || ksq.Row() != homeRow(c) || ksq.Col() != 4 {
		return
	}
	them := c.Other()
	if p.attackedBy(ksq, them) {
		return
	}

	if p.castling.CanCastle(c, true) && p.rookAt(c, 7) {
		f, g := ksq+1, ksq+2
		if p.board.At(f) == NoPiece && p.board.At(g) == NoPiece &&
			!p.attackedBy(f, them) && !p.attackedBy(g, them) {
			ml.Add(NewMove(ksq, g, &p.board, FlagCastle))
		}
	}

	if p.castling.CanCastle(c, false) && p.rookAt(c, 0) {
		d, cc, b := ksq-1, ksq-2, ksq-3
		if p.board.At(d) == NoPiece && p.board.At(cc) == NoPiece && p.board.At(b) == NoPiece &&
			!p.attackedBy(d, them) && !p.attackedBy(cc, them) {
			ml.Add(NewMove(ksq, cc, &p.board, FlagCastle))
		}
	}
}

// rookAt reports whether a rook of color c stands in column col of its home row.
func (p *Position) rookAt(c Color, col int) bool {
	return p.board.At(Square(homeRow(c)*8+col)).Is(c, Rook)
}
