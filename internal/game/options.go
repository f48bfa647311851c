package game

import (
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for move, undo and reset events.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Game) {
		g.log = log
	}
}

// WithRecorder sets the recorder notified once when the game ends.
func WithRecorder(r Recorder) Option {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithPromotion sets the piece pawns become when a move does not say.
// Anything other than a knight, bishop, rook or queen is ignored.
func WithPromotion(pt board.PieceType) Option {
	return func(g *Game) {
		switch pt {
		case board.Knight, board.Bishop, board.Rook, board.Queen:
			g.promotion = pt
		}
	}
}

// WithPosition starts the game from a custom position instead of the
// standard setup. Reset returns to this position.
func WithPosition(pos *board.Position) Option {
	return func(g *Game) {
		g.start = pos.Copy()
	}
}

// WithPlayers names the two sides for the game record.
func WithPlayers(white, black string) Option {
	return func(g *Game) {
		g.white, g.black = white, black
	}
}
