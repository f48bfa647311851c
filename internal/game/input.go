package game

import "github.com/hailam/chesscore/internal/board"

// ClickResult tells the caller what a click did.
type ClickResult int

const (
	ClickIgnored ClickResult = iota
	ClickSelected
	ClickDeselected
	ClickMoved
	ClickRejected
)

func (r ClickResult) String() string {
	switch r {
	case ClickSelected:
		return "selected"
	case ClickDeselected:
		return "deselected"
	case ClickMoved:
		return "moved"
	case ClickRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Selected returns the square chosen by the first click, or NoSquare.
func (g *Game) Selected() board.Square {
	return g.selected
}

// ClearSelection forgets the first click.
func (g *Game) ClearSelection() {
	g.selected = board.NoSquare
}

// Click handles one click on the board. The first click picks a piece of the
// side to move. A second click on the same square drops the selection, on
// another own piece switches to it, and anywhere else tries the move. When
// that move is not legal the clicked square becomes the new first click.
func (g *Game) Click(sq board.Square) (ClickResult, error) {
	if g.Over() {
		return ClickIgnored, ErrGameOver
	}
	if !sq.IsValid() {
		return ClickIgnored, board.ErrInvalidSquare
	}

	own := g.pos.PieceAt(sq)
	ownPiece := own != board.NoPiece && own.Color() == g.pos.SideToMove()

	if g.selected == board.NoSquare {
		if !ownPiece {
			return ClickIgnored, ErrNoSelection
		}
		g.selected = sq
		return ClickSelected, nil
	}

	if sq == g.selected {
		g.selected = board.NoSquare
		return ClickDeselected, nil
	}

	from := g.selected
	b := g.pos.Board()
	if _, ok := g.legal.Resolve(&b, from, sq); ok {
		if _, err := g.Move(from, sq); err != nil {
			return ClickRejected, err
		}
		return ClickMoved, nil
	}

	g.selected = sq
	if ownPiece {
		return ClickSelected, nil
	}
	g.log.Debug().Stringer("from", from).Stringer("to", sq).Stringer("reason", g.Explain(from, sq)).Msg("move rejected")
	return ClickRejected, nil
}

// Reason explains why a move attempt failed.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoPiece
	ReasonNotYourTurn
	ReasonBlockedByOwnPiece
	ReasonWouldLeaveKingInCheck
	ReasonInvalidPieceMovement
	ReasonCastlingNotAllowed
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "legal"
	case ReasonNoPiece:
		return "no piece on the start square"
	case ReasonNotYourTurn:
		return "not your turn"
	case ReasonBlockedByOwnPiece:
		return "blocked by own piece"
	case ReasonWouldLeaveKingInCheck:
		return "would leave king in check"
	case ReasonCastlingNotAllowed:
		return "castling not allowed: king in check, path attacked or blocked, or right lost"
	default:
		return "piece cannot move that way"
	}
}

// Explain analyzes why a move from src to dst is, or is not, legal.
func (g *Game) Explain(src, dst board.Square) Reason {
	b := g.pos.Board()
	if _, ok := g.legal.Resolve(&b, src, dst); ok {
		return ReasonNone
	}

	piece := g.pos.PieceAt(src)
	if piece == board.NoPiece {
		return ReasonNoPiece
	}
	if piece.Color() != g.pos.SideToMove() {
		return ReasonNotYourTurn
	}

	dest := g.pos.PieceAt(dst)
	if isCastleGesture(piece, src, dst, dest) {
		return ReasonCastlingNotAllowed
	}
	if dest != board.NoPiece && dest.Color() == piece.Color() {
		return ReasonBlockedByOwnPiece
	}

	// Generated but filtered out by the king safety check
	if _, ok := g.pos.PseudoLegalMoves().Find(src, dst); ok {
		return ReasonWouldLeaveKingInCheck
	}
	return ReasonInvalidPieceMovement
}

// isCastleGesture reports whether a king on its home square is sent two
// files along its back rank or onto one of its own rooks there.
func isCastleGesture(king board.Piece, src, dst board.Square, dest board.Piece) bool {
	if king.Type() != board.King || src.Col() != 4 || dst.Row() != src.Row() {
		return false
	}
	home := 7
	if king.Color() == board.Black {
		home = 0
	}
	if src.Row() != home {
		return false
	}
	if d := dst.Col() - src.Col(); d == 2 || d == -2 {
		return true
	}
	return dest.Is(king.Color(), board.Rook)
}
