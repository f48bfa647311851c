package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/chesscore/internal/board"
)

// setup builds a custom position from a piece placement.
func setup(t *testing.T, side board.Color, pieces map[board.Square]board.Piece) *board.Position {
	t.Helper()
	var b board.Board
	for sq, pc := range pieces {
		b.Set(sq, pc)
	}
	pos, err := board.Setup{Board: b, SideToMove: side}.Position()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return pos
}

func playSAN(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		if _, err := g.MoveSAN(s); err != nil {
			t.Fatalf("MoveSAN(%q): %v", s, err)
		}
	}
}

var foolsMate = []string{"f3", "e5", "g4", "Qh4#"}

type fakeRecorder struct {
	calls   int
	records []Record
	id      uint64
	err     error
}

func (f *fakeRecorder) GameFinished(rec Record) (uint64, error) {
	f.calls++
	f.records = append(f.records, rec)
	return f.id, f.err
}

func TestNewGame(t *testing.T) {
	g := New()

	if g.Status() != InProgress || g.Over() {
		t.Errorf("new game status = %v", g.Status())
	}
	if g.SideToMove() != board.White {
		t.Errorf("side to move = %v, want white", g.SideToMove())
	}
	if got := len(g.LegalMoves()); got != 20 {
		t.Errorf("legal moves = %d, want 20", got)
	}
	if g.Selected() != board.NoSquare {
		t.Errorf("selected = %v, want none", g.Selected())
	}
	if g.Outcome() != NoOutcome || g.Result() != "" {
		t.Errorf("outcome = %q result = %q", g.Outcome(), g.Result())
	}
	if got := g.LegalMovesFrom(board.G1).String(); got != "g1f3 g1h3" {
		t.Errorf("moves from g1 = %q", got)
	}
}

func TestClick(t *testing.T) {
	g := New()

	steps := []struct {
		sq       board.Square
		want     ClickResult
		wantErr  error
		selected board.Square
	}{
		{board.E4, ClickIgnored, ErrNoSelection, board.NoSquare},
		{board.E7, ClickIgnored, ErrNoSelection, board.NoSquare},
		{board.E2, ClickSelected, nil, board.E2},
		{board.E2, ClickDeselected, nil, board.NoSquare},
		{board.E2, ClickSelected, nil, board.E2},
		{board.G1, ClickSelected, nil, board.G1},
		{board.F3, ClickMoved, nil, board.NoSquare},
		{board.E7, ClickSelected, nil, board.E7},
		// e7-e4 is not a move: the clicked square becomes the first click.
		{board.E4, ClickRejected, nil, board.E4},
		{board.E4, ClickDeselected, nil, board.NoSquare},
		{board.E7, ClickSelected, nil, board.E7},
		{board.E5, ClickMoved, nil, board.NoSquare},
	}
	for i, s := range steps {
		got, err := g.Click(s.sq)
		if !errors.Is(err, s.wantErr) {
			t.Fatalf("step %d: Click(%v) error = %v, want %v", i, s.sq, err, s.wantErr)
		}
		if got != s.want {
			t.Errorf("step %d: Click(%v) = %v, want %v", i, s.sq, got, s.want)
		}
		if g.Selected() != s.selected {
			t.Errorf("step %d: selected = %v, want %v", i, g.Selected(), s.selected)
		}
	}

	if diff := cmp.Diff([]string{"Nf3", "e5"}, g.SANHistory()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestClickCastleOntoRook(t *testing.T) {
	g := New()
	playSAN(t, g, "e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5")

	for _, sq := range []board.Square{board.E1, board.H1} {
		if _, err := g.Click(sq); err != nil {
			t.Fatalf("Click(%v): %v", sq, err)
		}
	}
	if g.Position().PieceAt(board.G1) != board.WhiteKing || g.Position().PieceAt(board.F1) != board.WhiteRook {
		t.Errorf("king onto own rook did not castle:\n%s", g.Position())
	}
}

func TestClickAfterGameOver(t *testing.T) {
	g := New()
	playSAN(t, g, foolsMate...)

	if _, err := g.Click(board.E2); !errors.Is(err, ErrGameOver) {
		t.Errorf("Click after mate error = %v, want ErrGameOver", err)
	}
}

func TestMoveNotations(t *testing.T) {
	g := New()

	if _, err := g.Move(board.E2, board.E4); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := g.MoveUCI("e7e5"); err != nil {
		t.Fatalf("MoveUCI: %v", err)
	}
	if _, err := g.MoveSAN("Nf3"); err != nil {
		t.Fatalf("MoveSAN: %v", err)
	}

	if _, err := g.MoveUCI("e5e3"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("MoveUCI(e5e3) error = %v, want ErrIllegalMove", err)
	}
	if _, err := g.Move(board.A7, board.A4); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("Move(a7, a4) error = %v, want ErrIllegalMove", err)
	}
	if _, err := g.MoveSAN("Qxf7"); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("MoveSAN(Qxf7) error = %v, want ErrIllegalMove", err)
	}

	want := []string{"e2e4", "e7e5", "g1f3"}
	var got []string
	for _, m := range g.MoveHistory() {
		got = append(got, m.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("move history mismatch (-want +got):\n%s", diff)
	}
	if last, ok := g.LastMove(); !ok || last.String() != "g1f3" {
		t.Errorf("last move = %v, %v", last, ok)
	}
}

func TestPromotion(t *testing.T) {
	pos := setup(t, board.White, map[board.Square]board.Piece{
		board.H1: board.WhiteKing,
		board.A7: board.WhitePawn,
		board.B7: board.WhitePawn,
		board.H8: board.BlackKing,
		board.H6: board.BlackPawn,
	})

	tests := []struct {
		name string
		opts []Option
		play func(g *Game) error
		want board.Piece
	}{
		{
			name: "default queen",
			play: func(g *Game) error { _, err := g.Move(board.A7, board.A8); return err },
			want: board.WhiteQueen,
		},
		{
			name: "configured knight",
			opts: []Option{WithPromotion(board.Knight)},
			play: func(g *Game) error { _, err := g.Move(board.A7, board.A8); return err },
			want: board.WhiteKnight,
		},
		{
			name: "king is not a promotion piece",
			opts: []Option{WithPromotion(board.King)},
			play: func(g *Game) error { _, err := g.Move(board.A7, board.A8); return err },
			want: board.WhiteQueen,
		},
		{
			name: "notation overrides default",
			opts: []Option{WithPromotion(board.Knight)},
			play: func(g *Game) error { _, err := g.MoveUCI("a7a8r"); return err },
			want: board.WhiteRook,
		},
		{
			name: "SAN names the piece",
			play: func(g *Game) error { _, err := g.MoveSAN("a8=B"); return err },
			want: board.WhiteBishop,
		},
		{
			name: "click uses default",
			opts: []Option{WithPromotion(board.Rook)},
			play: func(g *Game) error {
				if _, err := g.Click(board.A7); err != nil {
					return err
				}
				_, err := g.Click(board.A8)
				return err
			},
			want: board.WhiteRook,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(append(tt.opts, WithPosition(pos))...)
			if err := tt.play(g); err != nil {
				t.Fatalf("promotion: %v", err)
			}
			if got := g.Position().PieceAt(board.A8); got != tt.want {
				t.Errorf("a8 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckmateAndUndo(t *testing.T) {
	g := New()
	playSAN(t, g, foolsMate...)

	if g.Status() != Checkmate {
		t.Fatalf("status = %v, want checkmate", g.Status())
	}
	if g.Outcome() != BlackWon || g.Outcome().Winner() != board.Black {
		t.Errorf("outcome = %q", g.Outcome())
	}
	if got := g.Result(); got != "Black wins by checkmate!" {
		t.Errorf("result = %q", got)
	}
	if _, err := g.MoveUCI("a2a3"); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate error = %v, want ErrGameOver", err)
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if g.Status() != InProgress || g.SideToMove() != board.Black {
		t.Errorf("after undo status = %v side = %v", g.Status(), g.SideToMove())
	}
	if diff := cmp.Diff(foolsMate[:3], g.SANHistory()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	playSAN(t, g, "Qh4")
	if g.Status() != Checkmate {
		t.Errorf("replayed mate status = %v", g.Status())
	}
}

func TestScholarsMateWhiteWins(t *testing.T) {
	g := New()
	playSAN(t, g, "e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#")

	if g.Outcome() != WhiteWon {
		t.Errorf("outcome = %q, want 1-0", g.Outcome())
	}
	if got := g.Result(); got != "White wins by checkmate!" {
		t.Errorf("result = %q", got)
	}
}

func TestUndoAtStart(t *testing.T) {
	g := New()
	if err := g.Undo(); !errors.Is(err, board.ErrNoMoveToUndo) {
		t.Errorf("Undo error = %v, want ErrNoMoveToUndo", err)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	g := New()
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8"}

	playSAN(t, g, shuffle...)
	if g.Status() != InProgress {
		t.Fatalf("after one shuffle status = %v", g.Status())
	}
	if got := g.repetitions(); got != 2 {
		t.Errorf("repetitions = %d, want 2", got)
	}

	playSAN(t, g, shuffle...)
	if g.Status() != ThreefoldRepetition {
		t.Fatalf("status = %v, want threefold repetition", g.Status())
	}
	if g.Outcome() != Draw {
		t.Errorf("outcome = %q, want draw", g.Outcome())
	}
	if got := g.Result(); got != "Draw by threefold repetition" {
		t.Errorf("result = %q", got)
	}
}

func TestHalfMoveClock(t *testing.T) {
	g := New()
	playSAN(t, g, "Nf3", "Nf6", "Nc3")
	if got := g.halfMoveClock(); got != 3 {
		t.Errorf("clock = %d, want 3", got)
	}
	playSAN(t, g, "e5")
	if got := g.halfMoveClock(); got != 0 {
		t.Errorf("clock after pawn move = %d, want 0", got)
	}
	playSAN(t, g, "Nxe5")
	if got := g.halfMoveClock(); got != 0 {
		t.Errorf("clock after capture = %d, want 0", got)
	}
	playSAN(t, g, "Nc6")
	if got := g.halfMoveClock(); got != 1 {
		t.Errorf("clock = %d, want 1", got)
	}
}

func TestInsufficientMaterial(t *testing.T) {
	pos := setup(t, board.White, map[board.Square]board.Piece{
		board.E1: board.WhiteKing,
		board.D3: board.WhiteBishop,
		board.E8: board.BlackKing,
		board.E4: board.BlackPawn,
	})
	g := New(WithPosition(pos))
	if g.Over() {
		t.Fatalf("game over before the capture: %v", g.Status())
	}

	playSAN(t, g, "Bxe4")
	if g.Status() != InsufficientMaterial {
		t.Fatalf("status = %v, want insufficient material", g.Status())
	}
	if got := g.Result(); got != "Draw by insufficient material" {
		t.Errorf("result = %q", got)
	}
}

func TestStalemate(t *testing.T) {
	pos := setup(t, board.White, map[board.Square]board.Piece{
		board.C6: board.WhiteKing,
		board.B5: board.WhiteQueen,
		board.A8: board.BlackKing,
	})
	g := New(WithPosition(pos))
	playSAN(t, g, "Qb6")

	if g.Status() != Stalemate {
		t.Fatalf("status = %v, want stalemate", g.Status())
	}
	if g.Outcome() != Draw || g.Outcome().Winner() != board.NoColor {
		t.Errorf("outcome = %q", g.Outcome())
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
		over   bool
	}{
		{InProgress, "in progress", false},
		{Checkmate, "checkmate", true},
		{Stalemate, "stalemate", true},
		{ThreefoldRepetition, "threefold repetition", true},
		{FiftyMoveRule, "50-move rule", true},
		{InsufficientMaterial, "insufficient material", true},
		{Status(42), "unknown", true},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
		if got := tt.status.Over(); got != tt.over {
			t.Errorf("Status(%d).Over() = %v, want %v", int(tt.status), got, tt.over)
		}
	}
}

func TestExplain(t *testing.T) {
	g := New()
	tests := []struct {
		from, to board.Square
		want     Reason
	}{
		{board.E2, board.E4, ReasonNone},
		{board.E4, board.E5, ReasonNoPiece},
		{board.E7, board.E5, ReasonNotYourTurn},
		{board.D1, board.D2, ReasonBlockedByOwnPiece},
		{board.E2, board.E5, ReasonInvalidPieceMovement},
		{board.F1, board.C4, ReasonInvalidPieceMovement},
	}
	for _, tt := range tests {
		if got := g.Explain(tt.from, tt.to); got != tt.want {
			t.Errorf("Explain(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}

	pinned := setup(t, board.White, map[board.Square]board.Piece{
		board.E1: board.WhiteKing,
		board.E2: board.WhiteBishop,
		board.E8: board.BlackRook,
		board.A8: board.BlackKing,
	})
	g = New(WithPosition(pinned))
	if got := g.Explain(board.E2, board.D3); got != ReasonWouldLeaveKingInCheck {
		t.Errorf("pinned bishop: Explain = %v, want %v", got, ReasonWouldLeaveKingInCheck)
	}
}

func TestExplainCastling(t *testing.T) {
	var b board.Board
	b.Set(board.E1, board.WhiteKing)
	b.Set(board.H1, board.WhiteRook)
	b.Set(board.E8, board.BlackKing)
	b.Set(board.F8, board.BlackRook)
	pos, err := board.Setup{Board: b, SideToMove: board.White, Castling: board.WhiteKingSideCastle}.Position()
	if err != nil {
		t.Fatal(err)
	}
	g := New(WithPosition(pos))

	// f1 is attacked by the rook on f8.
	for _, to := range []board.Square{board.G1, board.H1} {
		if got := g.Explain(board.E1, to); got != ReasonCastlingNotAllowed {
			t.Errorf("Explain(e1, %v) = %v, want %v", to, got, ReasonCastlingNotAllowed)
		}
	}
	if got := g.Explain(board.E1, board.F1); got != ReasonWouldLeaveKingInCheck {
		t.Errorf("Explain(e1, f1) = %v, want %v", got, ReasonWouldLeaveKingInCheck)
	}

	// Blocked by the bishop and knight.
	if got := New().Explain(board.E1, board.G1); got != ReasonCastlingNotAllowed {
		t.Errorf("start position: Explain(e1, g1) = %v, want %v", got, ReasonCastlingNotAllowed)
	}
}

func TestRecorderCalledOnce(t *testing.T) {
	rec := &fakeRecorder{id: 7}
	g := New(WithRecorder(rec), WithPlayers("alice", "bob"))
	playSAN(t, g, foolsMate...)

	if rec.calls != 1 {
		t.Fatalf("recorder calls = %d, want 1", rec.calls)
	}
	if g.ID() != 7 {
		t.Errorf("ID = %d, want 7", g.ID())
	}

	want := Record{
		White:  "alice",
		Black:  "bob",
		Moves:  []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		SAN:    foolsMate,
		Result: BlackWon,
		Status: Checkmate,
	}
	if diff := cmp.Diff(want, rec.records[0], cmpopts.IgnoreFields(Record{}, "Started")); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	// Taking the mate back and playing it again does not record twice.
	if err := g.Undo(); err != nil {
		t.Fatal(err)
	}
	playSAN(t, g, "Qh4#")
	if rec.calls != 1 {
		t.Errorf("recorder calls after replaying mate = %d, want 1", rec.calls)
	}

	g.Reset()
	if g.ID() != 0 {
		t.Errorf("ID after reset = %d, want 0", g.ID())
	}
	playSAN(t, g, foolsMate...)
	if rec.calls != 2 {
		t.Errorf("recorder calls after new game = %d, want 2", rec.calls)
	}
}

func TestRecorderError(t *testing.T) {
	rec := &fakeRecorder{id: 3, err: errors.New("disk full")}
	g := New(WithRecorder(rec))
	playSAN(t, g, foolsMate...)

	if rec.calls != 1 {
		t.Errorf("recorder calls = %d, want 1", rec.calls)
	}
	if g.ID() != 0 {
		t.Errorf("ID = %d, want 0 after failed record", g.ID())
	}
}

func TestReplay(t *testing.T) {
	g := New(WithPlayers("alice", "bob"))
	playSAN(t, g, "e4", "e5", "Nf3", "Nc6", "Bb5", "a6")
	g.SetID(11)
	rec := g.Record()

	rg, err := Replay(rec)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if diff := cmp.Diff(rec, rg.Record()); diff != "" {
		t.Errorf("replayed record mismatch (-want +got):\n%s", diff)
	}
	if rg.Position().Hash() != g.Position().Hash() {
		t.Error("replayed position differs")
	}

	rec.Moves = append(rec.Moves, "e1e3")
	if _, err := Replay(rec); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("Replay with bad move error = %v, want ErrIllegalMove", err)
	}
}

func TestReplayFinishedGameNotRecorded(t *testing.T) {
	g := New()
	playSAN(t, g, foolsMate...)

	rec := &fakeRecorder{id: 9}
	rg, err := Replay(g.Record(), WithRecorder(rec))
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("recorder calls = %d, want 0", rec.calls)
	}
	if rg.Status() != Checkmate {
		t.Errorf("status = %v, want checkmate", rg.Status())
	}

	if err := rg.Undo(); err != nil {
		t.Fatal(err)
	}
	playSAN(t, rg, "Qh4#")
	if rec.calls != 0 {
		t.Errorf("recorder calls after replaying mate = %d, want 0", rec.calls)
	}
}

func TestWithPositionAndReset(t *testing.T) {
	pos := setup(t, board.Black, map[board.Square]board.Piece{
		board.E1: board.WhiteKing,
		board.E8: board.BlackKing,
		board.A7: board.BlackRook,
	})
	g := New(WithPosition(pos))

	if g.SideToMove() != board.Black {
		t.Fatalf("side to move = %v, want black", g.SideToMove())
	}
	if err := g.Undo(); !errors.Is(err, board.ErrNoMoveToUndo) {
		t.Errorf("Undo at custom start error = %v, want ErrNoMoveToUndo", err)
	}

	playSAN(t, g, "Ra2", "Kf1")
	if got := g.Record().Moves; !cmp.Equal(got, []string{"a7a2", "e1f1"}) {
		t.Errorf("record moves = %v", got)
	}

	g.Reset()
	if diff := cmp.Diff(pos.Board(), g.Position().Board()); diff != "" {
		t.Errorf("reset board mismatch (-want +got):\n%s", diff)
	}
	if g.Position().Ply() != 0 || len(g.SANHistory()) != 0 {
		t.Errorf("reset left history: ply %d, san %v", g.Position().Ply(), g.SANHistory())
	}

	// The caller's position is not shared with the game.
	if pos.Ply() != 0 {
		t.Errorf("caller position was modified: ply %d", pos.Ply())
	}
}
