package board

import (
	"fmt"
	"strings"
)

// Position represents a game in progress: the board, the side to move and the
// history needed to undo every applied move exactly.
//
// A Position is not safe for concurrent use. LegalMoves mutates the position
// internally while simulating candidate moves and restores it before returning.
type Position struct {
	board      Board
	sideToMove Color

	// King squares, cached for check detection.
	kingSquare [2]Square

	moveLog []Move

	// castlingLog[i] holds the rights in force after i moves, so
	// len(castlingLog) == len(moveLog)+1 and the last entry equals castling.
	castling    CastlingRights
	castlingLog []CastlingRights

	// enPassant is the square a pawn just skipped over, NoSquare otherwise.
	// enPassantLog keeps the target that preceded each applied move.
	enPassant    Square
	enPassantLog []Square

	// Terminal flags, valid only right after LegalMoves.
	checkmate bool
	stalemate bool
}

// NewPosition creates the standard starting position, white to move.
func NewPosition() *Position {
	p := &Position{
		board:      standardBoard(),
		sideToMove: White,
		kingSquare: [2]Square{E1, E8},
		castling:   AllCastling,
		enPassant:  NoSquare,
	}
	p.castlingLog = []CastlingRights{p.castling}
	return p
}

// Setup describes a custom position. Build one with Position.
//
// A8 can never be an en passant target, so the zero EnPassant means none,
// as does NoSquare.
type Setup struct {
	Board      Board
	SideToMove Color
	Castling   CastlingRights
	EnPassant  Square
}

// Position validates the setup and returns a position with an empty move log.
func (s Setup) Position() (*Position, error) {
	p := &Position{
		board:      s.Board,
		sideToMove: s.SideToMove,
		kingSquare: [2]Square{NoSquare, NoSquare},
		castling:   s.Castling,
		enPassant:  s.EnPassant,
	}
	if p.enPassant == A8 {
		p.enPassant = NoSquare
	}
	p.castlingLog = []CastlingRights{p.castling}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the position invariants: exactly one king per side, no pawns
// on the back ranks, castling rights backed by an unmoved king and rook, an en
// passant target behind a pawn that could just have double-stepped, and the
// side not to move not in check. It also refreshes the king cache.
func (p *Position) Validate() error {
	if p.sideToMove >= NoColor {
		return fmt.Errorf("%w: no side to move", ErrInvalidPosition)
	}

	kings := [2]int{}
	p.kingSquare = [2]Square{NoSquare, NoSquare}
	for sq := A8; sq <= H1; sq++ {
		pc := p.board.At(sq)
		switch pc.Type() {
		case King:
			kings[pc.Color()]++
			p.kingSquare[pc.Color()] = sq
		case Pawn:
			if sq.Row() == 0 || sq.Row() == 7 {
				return fmt.Errorf("%w: pawn on %s", ErrInvalidPosition, sq)
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("%w: need exactly one king per side, have %d white and %d black",
			ErrInvalidPosition, kings[White], kings[Black])
	}

	for _, c := range []Color{White, Black} {
		for _, kingSide := range []bool{true, false} {
			if !p.castling.CanCastle(c, kingSide) {
				continue
			}
			col := 0
			if kingSide {
				col = 7
			}
			home := Square(homeRow(c)*8 + 4)
			if p.kingSquare[c] != home || !p.rookAt(c, col) {
				return fmt.Errorf("%w: castling right %s without king and rook at home",
					ErrInvalidPosition, castleRight(c, kingSide))
			}
		}
	}

	if p.enPassant != NoSquare {
		if !p.enPassant.IsValid() {
			return fmt.Errorf("%w: en passant square %d", ErrInvalidPosition, p.enPassant)
		}
		// The pawn that double-stepped belongs to the side not to move.
		them := p.sideToMove.Other()
		wantRow, dir := 2, 1
		if them == White {
			wantRow, dir = 5, -1
		}
		pawnSq, _ := p.enPassant.Offset(dir, 0)
		if p.enPassant.Row() != wantRow || p.board.At(p.enPassant) != NoPiece ||
			!p.board.At(pawnSq).Is(them, Pawn) {
			return fmt.Errorf("%w: en passant target %s", ErrInvalidPosition, p.enPassant)
		}
	}

	if p.attackedBy(p.kingSquare[p.sideToMove.Other()], p.sideToMove) {
		return fmt.Errorf("%w: %s king can be captured", ErrInvalidPosition, p.sideToMove.Other())
	}
	return nil
}

// Board returns a copy of the board.
func (p *Position) Board() Board {
	return p.board
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.board.At(sq)
}

// SideToMove returns the color whose turn it is.
func (p *Position) SideToMove() Color {
	return p.sideToMove
}

// KingSquare returns the cached square of the king of color c.
func (p *Position) KingSquare(c Color) Square {
	return p.kingSquare[c]
}

// CastlingRights returns the rights currently in force.
func (p *Position) CastlingRights() CastlingRights {
	return p.castling
}

// CastlingHistory returns the rights after each ply, starting with the initial rights.
func (p *Position) CastlingHistory() []CastlingRights {
	return append([]CastlingRights(nil), p.castlingLog...)
}

// EnPassant returns the current en passant target, or NoSquare.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// MoveLog returns the applied moves, oldest first.
func (p *Position) MoveLog() []Move {
	return append([]Move(nil), p.moveLog...)
}

// Ply returns the number of applied moves.
func (p *Position) Ply() int {
	return len(p.moveLog)
}

// LastMove returns the most recently applied move.
func (p *Position) LastMove() (Move, bool) {
	if len(p.moveLog) == 0 {
		return NoMove, false
	}
	return p.moveLog[len(p.moveLog)-1], true
}

// Checkmate reports whether the last LegalMoves call found the side to move mated.
func (p *Position) Checkmate() bool {
	return p.checkmate
}

// Stalemate reports whether the last LegalMoves call found no moves without check.
func (p *Position) Stalemate() bool {
	return p.stalemate
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.moveLog = append([]Move(nil), p.moveLog...)
	newPos.castlingLog = append([]CastlingRights(nil), p.castlingLog...)
	newPos.enPassantLog = append([]Square(nil), p.enPassantLog...)
	return &newPos
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(p.board.String())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Ply: %d\n", len(p.moveLog))
	return sb.String()
}

// InsufficientMaterial returns true if neither side can checkmate.
func (p *Position) InsufficientMaterial() bool {
	var minors [2]int
	for sq := A8; sq <= H1; sq++ {
		pc := p.board.At(sq)
		switch pc.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[pc.Color()]++
		}
	}
	// K vs K, K+minor vs K
	return minors[White]+minors[Black] <= 1
}
