// Package game runs a chess game on top of the rules engine: move input by
// clicks or notation, undo, draw detection and the record of the moves played.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

var (
	// ErrGameOver is returned when a move is attempted after the game ended.
	ErrGameOver = errors.New("game is over")

	// ErrNoSelection is returned when a click neither selects a piece of the
	// side to move nor completes a move from an earlier selection.
	ErrNoSelection = errors.New("no piece selected")
)

// Recorder is told about a game once, when it ends. It returns the ID under
// which the game was stored.
type Recorder interface {
	GameFinished(rec Record) (uint64, error)
}

// Game is a chess game in progress. It is not safe for concurrent use.
type Game struct {
	pos   *board.Position
	start *board.Position

	// Legal moves of the current position, recomputed after every change.
	legal board.MoveList

	selected board.Square

	san    []string
	hashes []uint64 // position keys for repetition detection, starting position first

	status   Status
	recorded bool

	id           uint64
	white, black string
	started      time.Time

	promotion board.PieceType
	recorder  Recorder
	log       zerolog.Logger
}

// New creates a game from the standard starting position.
func New(opts ...Option) *Game {
	g := &Game{
		promotion: board.Queen,
		white:     "White",
		black:     "Black",
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.start == nil {
		g.start = board.NewPosition()
	}
	g.reset()
	return g
}

// reset puts the game back at its starting position.
func (g *Game) reset() {
	g.pos = g.start.Copy()
	g.san = g.pos.SANHistory()
	g.hashes = []uint64{g.pos.Hash()}
	g.selected = board.NoSquare
	g.recorded = false
	g.id = 0
	g.started = time.Now()
	g.refresh()
}

// refresh recomputes the legal moves and the game status.
func (g *Game) refresh() {
	g.legal = g.pos.LegalMoves()
	g.status = g.evaluate()
}

// Reset starts a new game from the starting position.
func (g *Game) Reset() {
	g.reset()
	g.log.Debug().Msg("new game")
}

// Position returns the underlying position. Callers must not modify it.
func (g *Game) Position() *board.Position {
	return g.pos
}

// SideToMove returns the color whose turn it is.
func (g *Game) SideToMove() board.Color {
	return g.pos.SideToMove()
}

// LegalMoves returns the legal moves of the current position.
func (g *Game) LegalMoves() board.MoveList {
	return append(board.MoveList(nil), g.legal...)
}

// LegalMovesFrom returns the legal moves starting on sq, for highlighting.
func (g *Game) LegalMovesFrom(sq board.Square) board.MoveList {
	return g.legal.From(sq)
}

// InCheck returns true if the side to move is in check.
func (g *Game) InCheck() bool {
	return g.pos.InCheck()
}

// Status returns the current game status.
func (g *Game) Status() Status {
	return g.status
}

// Over returns true if the game has ended.
func (g *Game) Over() bool {
	return g.status.Over()
}

// SANHistory returns the moves played so far in SAN.
func (g *Game) SANHistory() []string {
	return append([]string(nil), g.san...)
}

// MoveHistory returns the moves played so far.
func (g *Game) MoveHistory() []board.Move {
	return g.pos.MoveLog()
}

// LastMove returns the most recent move.
func (g *Game) LastMove() (board.Move, bool) {
	return g.pos.LastMove()
}

// ID returns the storage ID of the game, zero until it has been saved.
func (g *Game) ID() uint64 {
	return g.id
}

// SetID records the storage ID assigned to the game.
func (g *Game) SetID(id uint64) {
	g.id = id
}

// Promotion returns the default promotion piece.
func (g *Game) Promotion() board.PieceType {
	return g.promotion
}

// SetPromotion changes the default promotion piece.
func (g *Game) SetPromotion(pt board.PieceType) {
	WithPromotion(pt)(g)
}

// Move plays the legal move from one square to another. A king moved onto
// its own rook castles toward it. Promotions use the default piece.
func (g *Game) Move(from, to board.Square) (board.Move, error) {
	if g.Over() {
		return board.NoMove, ErrGameOver
	}
	b := g.pos.Board()
	m, ok := g.legal.Resolve(&b, from, to)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s%s", board.ErrIllegalMove, from, to)
	}
	if m.Promotion {
		m = m.WithPromotion(g.promotion)
	}
	return m, g.play(m)
}

// MoveUCI plays a move given in coordinate notation ("e2e4", "e7e8n").
func (g *Game) MoveUCI(s string) (board.Move, error) {
	if g.Over() {
		return board.NoMove, ErrGameOver
	}
	m, err := g.pos.ParseMove(s)
	if err != nil {
		return board.NoMove, err
	}
	if m.Promotion && m.PromoteTo == board.NoPieceType {
		m = m.WithPromotion(g.promotion)
	}
	return m, g.play(m)
}

// MoveSAN plays a move given in Standard Algebraic Notation ("Nf3", "O-O").
func (g *Game) MoveSAN(s string) (board.Move, error) {
	if g.Over() {
		return board.NoMove, ErrGameOver
	}
	m, err := g.pos.ParseSAN(s)
	if err != nil {
		return board.NoMove, err
	}
	return m, g.play(m)
}

// play applies a legal move and updates history, status and recording.
func (g *Game) play(m board.Move) error {
	san := g.pos.SAN(m)
	if err := g.pos.Apply(m); err != nil {
		return err
	}
	g.san = append(g.san, san)
	g.hashes = append(g.hashes, g.pos.Hash())
	g.selected = board.NoSquare
	g.refresh()

	g.log.Debug().
		Str("move", m.String()).
		Str("san", san).
		Stringer("side", g.pos.SideToMove()).
		Int("ply", g.pos.Ply()).
		Msg("move played")

	if g.Over() {
		g.log.Info().Str("result", string(g.Outcome())).Stringer("status", g.status).Msg("game over")
		g.finish()
	}
	return nil
}

// finish hands the record to the recorder the first time the game ends.
func (g *Game) finish() {
	if g.recorder == nil || g.recorded {
		return
	}
	g.recorded = true
	id, err := g.recorder.GameFinished(g.Record())
	if err != nil {
		g.log.Error().Err(err).Msg("record finished game")
		return
	}
	g.id = id
}

// Undo takes back the last move. It also reopens a finished game. Moves
// that were part of a custom starting position cannot be undone.
func (g *Game) Undo() error {
	if g.pos.Ply() <= g.start.Ply() {
		return board.ErrNoMoveToUndo
	}
	if err := g.pos.Undo(); err != nil {
		return err
	}
	if n := len(g.san); n > 0 {
		g.san = g.san[:n-1]
	}
	g.hashes = g.hashes[:len(g.hashes)-1]
	g.selected = board.NoSquare
	g.refresh()

	g.log.Debug().Int("ply", g.pos.Ply()).Msg("move undone")
	return nil
}
