package board

import "fmt"

// Apply plays m if it is legal in the current position. The move is matched by
// its squares; a promotion takes the caller's PromoteTo, queen when unset.
// On error the position is left untouched.
func (p *Position) Apply(m Move) error {
	legal, ok := p.LegalMoves().Find(m.From, m.To)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	if legal.Promotion {
		if !validPromotion(m.PromoteTo) {
			return fmt.Errorf("%w: %s", ErrInvalidPromotion, m.PromoteTo)
		}
		legal.PromoteTo = m.PromoteTo
	}
	p.MakeMove(legal)
	return nil
}

// Undo takes back the last applied move.
func (p *Position) Undo() error {
	if !p.UnmakeMove() {
		return ErrNoMoveToUndo
	}
	return nil
}

// MakeMove plays m without checking legality. The king cache, castling rights,
// en passant target and move log are updated together; a castle also moves
// the rook and an en passant capture removes the passed pawn.
func (p *Position) MakeMove(m Move) {
	us := m.Moved.Color()

	placed := m.Moved
	if m.Promotion {
		placed = NewPiece(m.Promoted(), us)
	}
	p.board.Set(m.From, NoPiece)
	p.board.Set(m.To, placed)

	if m.EnPassant {
		p.board.Set(enPassantVictim(m), NoPiece)
	}
	if m.Castle {
		rookFrom, rookTo := rookSquares(m.From, m.To)
		p.board.Set(rookTo, p.board.At(rookFrom))
		p.board.Set(rookFrom, NoPiece)
	}
	if m.Moved.Type() == King {
		p.kingSquare[us] = m.To
	}

	p.enPassantLog = append(p.enPassantLog, p.enPassant)
	p.enPassant = NoSquare
	if m.IsDoublePawnPush() {
		p.enPassant = Square((m.From.Row()+m.To.Row())/2*8 + m.From.Col())
	}

	p.castling = updatedRights(p.castling, m)
	p.castlingLog = append(p.castlingLog, p.castling)

	p.moveLog = append(p.moveLog, m)
	p.sideToMove = p.sideToMove.Other()
	p.checkmate, p.stalemate = false, false
}

// UnmakeMove reverses the last MakeMove exactly. It returns false, changing
// nothing, when no move has been played.
func (p *Position) UnmakeMove() bool {
	n := len(p.moveLog)
	if n == 0 {
		return false
	}
	m := p.moveLog[n-1]
	p.moveLog = p.moveLog[:n-1]
	p.sideToMove = p.sideToMove.Other()

	p.board.Set(m.From, m.Moved)
	if m.EnPassant {
		p.board.Set(m.To, NoPiece)
		p.board.Set(enPassantVictim(m), m.Captured)
	} else {
		p.board.Set(m.To, m.Captured)
	}
	if m.Castle {
		rookFrom, rookTo := rookSquares(m.From, m.To)
		p.board.Set(rookFrom, p.board.At(rookTo))
		p.board.Set(rookTo, NoPiece)
	}
	if m.Moved.Type() == King {
		p.kingSquare[m.Moved.Color()] = m.From
	}

	p.castlingLog = p.castlingLog[:len(p.castlingLog)-1]
	p.castling = p.castlingLog[len(p.castlingLog)-1]

	p.enPassant = p.enPassantLog[len(p.enPassantLog)-1]
	p.enPassantLog = p.enPassantLog[:len(p.enPassantLog)-1]

	p.checkmate, p.stalemate = false, false
	return true
}

// enPassantVictim is the square of the pawn captured en passant: the start
// row of the capturing pawn, the end column of the move.
func enPassantVictim(m Move) Square {
	return Square(m.From.Row()*8 + m.To.Col())
}
