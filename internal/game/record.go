package game

import (
	"fmt"
	"time"
)

// Record is a snapshot of a game suitable for persistence.
type Record struct {
	ID      uint64
	White   string
	Black   string
	Started time.Time
	Moves   []string // coordinate notation, oldest first
	SAN     []string
	Result  Outcome
	Status  Status
}

// Record returns a snapshot of the game so far.
func (g *Game) Record() Record {
	moves := g.pos.MoveLog()[g.start.Ply():]
	rec := Record{
		ID:      g.id,
		White:   g.white,
		Black:   g.black,
		Started: g.started,
		Moves:   make([]string, len(moves)),
		SAN:     append([]string(nil), g.san[len(g.san)-len(moves):]...),
		Result:  g.Outcome(),
		Status:  g.status,
	}
	for i, m := range moves {
		rec.Moves[i] = m.String()
	}
	return rec
}

// Replay rebuilds a game by playing the recorded moves from the starting
// position. The recorder, if any, is attached only after the moves are
// replayed so a finished game is not recorded twice.
func Replay(rec Record, opts ...Option) (*Game, error) {
	g := New(opts...)
	recorder := g.recorder
	g.recorder = nil

	for i, s := range rec.Moves {
		if _, err := g.MoveUCI(s); err != nil {
			return nil, fmt.Errorf("replay move %d (%s): %w", i+1, s, err)
		}
	}

	g.recorder = recorder
	g.recorded = g.Over()
	g.id = rec.ID
	if rec.White != "" {
		g.white = rec.White
	}
	if rec.Black != "" {
		g.black = rec.Black
	}
	if !rec.Started.IsZero() {
		g.started = rec.Started
	}
	return g, nil
}
