package game

import "github.com/hailam/chesscore/internal/board"

// Status describes whether the game continues and, if not, why it ended.
type Status int

const (
	InProgress Status = iota
	Checkmate
	Stalemate
	ThreefoldRepetition
	FiftyMoveRule
	InsufficientMaterial
)

// String returns a short lowercase name for the status.
func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case ThreefoldRepetition:
		return "threefold repetition"
	case FiftyMoveRule:
		return "50-move rule"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "unknown"
	}
}

// Over reports whether the status ends the game.
func (s Status) Over() bool {
	return s != InProgress
}

// Outcome is the result of a finished game in the usual score notation.
type Outcome string

const (
	NoOutcome Outcome = "*"
	WhiteWon  Outcome = "1-0"
	BlackWon  Outcome = "0-1"
	Draw      Outcome = "1/2-1/2"
)

// Winner returns the winning color, or NoColor for a draw or an open game.
func (o Outcome) Winner() board.Color {
	switch o {
	case WhiteWon:
		return board.White
	case BlackWon:
		return board.Black
	default:
		return board.NoColor
	}
}

// evaluate derives the status of the current position. The legal moves must
// have just been computed so that the checkmate and stalemate flags are current.
func (g *Game) evaluate() Status {
	switch {
	case g.pos.Checkmate():
		return Checkmate
	case g.pos.Stalemate():
		return Stalemate
	case g.repetitions() >= 3:
		return ThreefoldRepetition
	case g.halfMoveClock() >= 100:
		return FiftyMoveRule
	case g.pos.InsufficientMaterial():
		return InsufficientMaterial
	}
	return InProgress
}

// repetitions counts how often the current position has occurred.
func (g *Game) repetitions() int {
	if len(g.hashes) < 5 {
		// Need at least 4 half-moves to repeat a position
		return 1
	}
	current := g.hashes[len(g.hashes)-1]
	count := 0
	for _, h := range g.hashes {
		if h == current {
			count++
		}
	}
	return count
}

// halfMoveClock counts the plies since the last capture or pawn move.
func (g *Game) halfMoveClock() int {
	moves := g.pos.MoveLog()
	n := 0
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if m.IsCapture() || m.Moved.Type() == board.Pawn {
			break
		}
		n++
	}
	return n
}

// Outcome returns the score of the game.
func (g *Game) Outcome() Outcome {
	switch g.status {
	case InProgress:
		return NoOutcome
	case Checkmate:
		if g.pos.SideToMove() == board.White {
			return BlackWon
		}
		return WhiteWon
	default:
		return Draw
	}
}

// Result returns a sentence describing how the game ended, or "" while it
// is still in progress.
func (g *Game) Result() string {
	switch g.status {
	case InProgress:
		return ""
	case Checkmate:
		if g.pos.SideToMove() == board.White {
			return "Black wins by checkmate!"
		}
		return "White wins by checkmate!"
	default:
		return "Draw by " + g.status.String()
	}
}
