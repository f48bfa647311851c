package board

// LegalMoves returns every legal move for the side to move, in generation
// order: the row-major piece scan first, then castling.
//
// Each candidate is played on the board, the mover's king is tested and the
// move is taken back, so the position is unchanged on return. The checkmate
// and stalemate flags are set from the result.
func (p *Position) LegalMoves() MoveList {
	us := p.sideToMove
	them := us.Other()

	candidates := make(MoveList, 0, 64)
	p.generateAllMoves(&candidates, us)
	p.generateCastlingMoves(&candidates, us)

	legal := make(MoveList, 0, len(candidates))
	for _, m := range candidates {
		p.MakeMove(m)
		if !p.attackedBy(p.kingSquare[us], them) {
			legal = append(legal, m)
		}
		p.UnmakeMove()
	}

	p.checkmate, p.stalemate = false, false
	if len(legal) == 0 {
		if p.InCheck() {
			p.checkmate = true
		} else {
			p.stalemate = true
		}
	}
	return legal
}

// SquareUnderAttack reports whether the opponent of the side to move attacks sq.
func (p *Position) SquareUnderAttack(sq Square) bool {
	return p.attackedBy(sq, p.sideToMove.Other())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.SquareUnderAttack(p.kingSquare[p.sideToMove])
}

// IsLegal reports whether m matches a legal move by its squares.
func (p *Position) IsLegal(m Move) bool {
	return p.LegalMoves().Contains(m)
}
