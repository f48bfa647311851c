package board

// offset is a (row, column) step on the board.
type offset struct{ dr, dc int }

// Step tables. The order here fixes the order of generated moves.
var (
	knightOffsets = [8]offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8]offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	rookRays      = [4]offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopRays    = [4]offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// pieceGenerator appends the pseudo-legal moves of the piece on from.
type pieceGenerator func(p *Position, ml *MoveList, from Square, us Color)

// generators dispatches on piece type.
var generators = [King + 1]pieceGenerator{
	Pawn:   (*Position).generatePawnMoves,
	Knight: (*Position).generateKnightMoves,
	Bishop: (*Position).generateBishopMoves,
	Rook:   (*Position).generateRookMoves,
	Queen:  (*Position).generateQueenMoves,
	King:   (*Position).generateKingMoves,
}

// PseudoLegalMoves returns the moves of the side to move that obey piece
// movement rules, ignoring king safety. Castling is not included.
func (p *Position) PseudoLegalMoves() MoveList {
	ml := make(MoveList, 0, 64)
	p.generateAllMoves(&ml, p.sideToMove)
	return ml
}

// generateAllMoves scans the board row by row and dispatches each piece of
// color us to its generator.
func (p *Position) generateAllMoves(ml *MoveList, us Color) {
	for sq := A8; sq <= H1; sq++ {
		pc := p.board.At(sq)
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		generators[pc.Type()](p, ml, sq, us)
	}
}

// pawnDirection is the row step of a pawn of color c.
func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// pawnStartRow is the row from which a pawn of color c may double-step.
func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func (p *Position) generatePawnMoves(ml *MoveList, from Square, us Color) {
	dir := pawnDirection(us)

	if to, ok := from.Offset(dir, 0); ok && p.board.At(to) == NoPiece {
		ml.Add(NewMove(from, to, &p.board, FlagNone))
		if from.Row() == pawnStartRow(us) {
			if to2, ok := from.Offset(2*dir, 0); ok && p.board.At(to2) == NoPiece {
				ml.Add(NewMove(from, to2, &p.board, FlagNone))
			}
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to, ok := from.Offset(dir, dc)
		if !ok {
			continue
		}
		target := p.board.At(to)
		switch {
		case target != NoPiece && target.Color() != us:
			ml.Add(NewMove(from, to, &p.board, FlagNone))
		case target == NoPiece && to == p.enPassant:
			ml.Add(NewMove(from, to, &p.board, FlagEnPassant))
		}
	}
}

func (p *Position) generateKnightMoves(ml *MoveList, from Square, us Color) {
	p.generateSteps(ml, from, us, knightOffsets[:])
}

func (p *Position) generateKingMoves(ml *MoveList, from Square, us Color) {
	p.generateSteps(ml, from, us, kingOffsets[:])
}

func (p *Position) generateRookMoves(ml *MoveList, from Square, us Color) {
	p.generateSlides(ml, from, us, rookRays[:])
}

func (p *Position) generateBishopMoves(ml *MoveList, from Square, us Color) {
	p.generateSlides(ml, from, us, bishopRays[:])
}

func (p *Position) generateQueenMoves(ml *MoveList, from Square, us Color) {
	p.generateSlides(ml, from, us, rookRays[:])
	p.generateSlides(ml, from, us, bishopRays[:])
}

// generateSteps adds single-step moves onto empty or enemy squares.
func (p *Position) generateSteps(ml *MoveList, from Square, us Color, steps []offset) {
	for _, o := range steps {
		to, ok := from.Offset(o.dr, o.dc)
		if !ok {
			continue
		}
		if target := p.board.At(to); target == NoPiece || target.Color() != us {
			ml.Add(NewMove(from, to, &p.board, FlagNone))
		}
	}
}

// generateSlides walks each ray until the edge, stopping before an own piece
// and on an enemy one.
func (p *Position) generateSlides(ml *MoveList, from Square, us Color, rays []offset) {
	for _, o := range rays {
		for i := 1; i < 8; i++ {
			to, ok := from.Offset(o.dr*i, o.dc*i)
			if !ok {
				break
			}
			target := p.board.At(to)
			if target != NoPiece && target.Color() == us {
				break
			}
			ml.Add(NewMove(from, to, &p.board, FlagNone))
			if target != NoPiece {
				break
			}
		}
	}
}

// attackedBy reports whether any piece of color by attacks sq. It walks the
// generator tables outward from sq. Pawns attack diagonally only and castling
// never attacks anything.
func (p *Position) attackedBy(sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}

	// A pawn of color by attacks sq from one row behind it, relative to its direction.
	dir := pawnDirection(by)
	for _, dc := range [2]int{-1, 1} {
		if from, ok := sq.Offset(-dir, dc); ok && p.board.At(from).Is(by, Pawn) {
			return true
		}
	}

	for _, o := range knightOffsets {
		if from, ok := sq.Offset(o.dr, o.dc); ok && p.board.At(from).Is(by, Knight) {
			return true
		}
	}
	for _, o := range kingOffsets {
		if from, ok := sq.Offset(o.dr, o.dc); ok && p.board.At(from).Is(by, King) {
			return true
		}
	}

	if p.rayHits(sq, by, rookRays[:], Rook) || p.rayHits(sq, by, bishopRays[:], Bishop) {
		return true
	}
	return false
}

// rayHits reports whether the first piece along any ray from sq is a slider
// of color by moving along such rays (slider or a queen).
func (p *Position) rayHits(sq Square, by Color, rays []offset, slider PieceType) bool {
	for _, o := range rays {
		for i := 1; i < 8; i++ {
			from, ok := sq.Offset(o.dr*i, o.dc*i)
			if !ok {
				break
			}
			pc := p.board.At(from)
			if pc == NoPiece {
				continue
			}
			if pc.Is(by, slider) || pc.Is(by, Queen) {
				return true
			}
			break
		}
	}
	return false
}
