package board

import (
	"fmt"
	"strings"
)

// MoveFlag marks the special moves a caller must declare when building a move
// outside the generator. Promotion is always derived from the board.
type MoveFlag uint8

const (
	FlagNone      MoveFlag = 0
	FlagEnPassant MoveFlag = 1 << 0
	FlagCastle    MoveFlag = 1 << 1
)

// Move is the record of one ply. It carries everything needed to undo it
// exactly: the moved piece and the captured piece (the passed pawn for an en
// passant capture, even though that pawn is not on the destination square).
type Move struct {
	From Square
	To   Square

	Moved    Piece
	Captured Piece

	// Promotion is set for any pawn move that lands on the last rank.
	Promotion bool
	// PromoteTo is the piece the pawn becomes; NoPieceType means queen.
	PromoteTo PieceType

	EnPassant bool
	Castle    bool
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove builds a move from two squares, reading the moved and captured pieces
// from b. Callers outside the generator pass FlagEnPassant or FlagCastle when
// they describe one of those moves.
func NewMove(from, to Square, b *Board, flags MoveFlag) Move {
	m := Move{
		From:      from,
		To:        to,
		Moved:     b.At(from),
		Captured:  b.At(to),
		EnPassant: flags&FlagEnPassant != 0,
		Castle:    flags&FlagCastle != 0,
	}
	m.Promotion = m.Moved.Type() == Pawn && (to.Row() == 0 || to.Row() == 7)
	if m.EnPassant {
		m.Captured = NewPiece(Pawn, m.Moved.Color().Other())
	}
	return m
}

// Equal reports whether two moves have the same start and end squares.
// Captured piece and flags are derived from the board and are not part of a
// move's identity.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsDoublePawnPush reports a pawn advancing two rows.
func (m Move) IsDoublePawnPush() bool {
	d := m.To.Row() - m.From.Row()
	return m.Moved.Type() == Pawn && (d == 2 || d == -2)
}

// Promoted returns the piece type a promotion resolves to.
func (m Move) Promoted() PieceType {
	if m.PromoteTo == NoPieceType {
		return Queen
	}
	return m.PromoteTo
}

// WithPromotion returns a copy of the move that promotes to pt.
func (m Move) WithPromotion(pt PieceType) Move {
	m.PromoteTo = pt
	return m
}

// String returns the move in coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion {
		s += string(m.Promoted().Char())
	}
	return s
}

// MoveList is an ordered list of moves.
type MoveList []Move

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	*ml = append(*ml, m)
}

// Len returns the number of moves in the list.
func (ml MoveList) Len() int {
	return len(ml)
}

// Find returns the move in the list going from `from` to `to`.
func (ml MoveList) Find(from, to Square) (Move, bool) {
	for _, m := range ml {
		if m.From == from && m.To == to {
			return m, true
		}
	}
	return NoMove, false
}

// Contains returns true if the list holds a move equal to m.
func (ml MoveList) Contains(m Move) bool {
	_, ok := ml.Find(m.From, m.To)
	return ok
}

// From returns the moves that start on sq, in order.
func (ml MoveList) From(sq Square) MoveList {
	var out MoveList
	for _, m := range ml {
		if m.From == sq {
			out = append(out, m)
		}
	}
	return out
}

// String joins the moves in coordinate notation.
func (ml MoveList) String() string {
	parts := make([]string, len(ml))
	for i, m := range ml {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// ParseMove resolves coordinate notation ("e2e4", "e7e8n") to a legal move in
// the current position. Castling may also be given as king-takes-own-rook
// ("e1h1", "e1a1").
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m, ok := p.LegalMoves().Resolve(&p.board, from, to)
	if !ok {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}

	if len(s) == 5 {
		if !m.Promotion {
			return NoMove, fmt.Errorf("%w: %s does not promote", ErrInvalidPromotion, s)
		}
		pt := PieceTypeFromChar(s[4])
		if pt == NoPieceType || !validPromotion(pt) {
			return NoMove, fmt.Errorf("%w: %q", ErrInvalidPromotion, s[4:])
		}
		m = m.WithPromotion(pt)
	}
	return m, nil
}

// Resolve finds the move going from `from` to `to`. A king moved onto its own
// rook on b is read as the castle toward that rook.
func (ml MoveList) Resolve(b *Board, from, to Square) (Move, bool) {
	if !from.IsValid() || !to.IsValid() {
		return NoMove, false
	}
	if m, ok := ml.Find(from, to); ok {
		return m, true
	}
	return findCastleByRook(ml, b, from, to)
}

// findCastleByRook matches a king-to-own-rook gesture against the castle moves.
func findCastleByRook(legal MoveList, b *Board, from, to Square) (Move, bool) {
	king, rook := b.At(from), b.At(to)
	if king.Type() != King || rook.Type() != Rook || king.Color() != rook.Color() {
		return NoMove, false
	}
	for _, m := range legal {
		if !m.Castle || m.From != from {
			continue
		}
		if (to.Col() > from.Col()) == (m.To.Col() > from.Col()) {
			return m, true
		}
	}
	return NoMove, false
}

func validPromotion(pt PieceType) bool {
	switch pt {
	case NoPieceType, Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}
