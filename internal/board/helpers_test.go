package board

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// positionCmp compares positions field by field, treating nil and empty
// history slices as equal.
var positionCmp = []cmp.Option{
	cmp.AllowUnexported(Position{}),
	cmpopts.EquateEmpty(),
}

// fromDiagram builds a position from eight rows of eight characters, rank 8
// first. Letters are pieces (uppercase white), '.' is an empty square.
func fromDiagram(t testing.TB, diagram string, side Color, cr CastlingRights, ep Square) *Position {
	t.Helper()

	var rows []string
	for _, line := range strings.Split(diagram, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) != 8 {
		t.Fatalf("diagram has %d rows, want 8", len(rows))
	}

	s := Setup{SideToMove: side, Castling: cr, EnPassant: ep}
	for row, line := range rows {
		if len(line) != 8 {
			t.Fatalf("diagram row %d is %q, want 8 squares", row, line)
		}
		for col := 0; col < 8; col++ {
			ch := line[col]
			if ch == '.' {
				continue
			}
			pt := PieceTypeFromChar(ch)
			if pt == NoPieceType {
				t.Fatalf("diagram row %d: unknown piece %q", row, ch)
			}
			c := Black
			if ch >= 'A' && ch <= 'Z' {
				c = White
			}
			s.Board[row][col] = NewPiece(pt, c)
		}
	}

	p, err := s.Position()
	if err != nil {
		t.Fatalf("invalid diagram: %v", err)
	}
	return p
}

// play applies moves given in coordinate notation, failing the test on the
// first one that is rejected.
func play(t testing.TB, p *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := p.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		if err := p.Apply(m); err != nil {
			t.Fatalf("Apply(%s): %v", s, err)
		}
	}
}

// moveStrings returns the coordinate notation of each move, in order.
func moveStrings(ml MoveList) []string {
	out := make([]string, len(ml))
	for i, m := range ml {
		out[i] = m.String()
	}
	return out
}

// Positions used across tests, with their FEN for the reference generators.
var (
	kiwipete = testPosition{
		name: "kiwipete",
		diagram: `
			r...k..r
			p.ppqpb.
			bn..pnp.
			...PN...
			.p..P...
			..N..Q.p
			PPPBBPPP
			R...K..R`,
		side:     White,
		castling: AllCastling,
		fen:      "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	}
	endgame = testPosition{
		name: "rook endgame",
		diagram: `
			........
			..p.....
			...p....
			KP.....r
			.R...p.k
			........
			....P.P.
			........`,
		side: White,
		fen:  "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	promotions = testPosition{
		name: "promotions",
		diagram: `
			r...k..r
			Pppp.ppp
			.b...nbN
			nP......
			BBP.P...
			q....N..
			Pp.P..PP
			R..Q.RK.`,
		side:     White,
		castling: BlackKingSideCastle | BlackQueenSideCastle,
		fen:      "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	}
	middlegame = testPosition{
		name: "middlegame",
		diagram: `
			rnbq.k.r
			pp.Pbppp
			..p.....
			........
			..B.....
			........
			PPP.NnPP
			RNBQK..R`,
		side:     White,
		castling: WhiteKingSideCastle | WhiteQueenSideCastle,
		fen:      "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	}
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type testPosition struct {
	name     string
	diagram  string
	side     Color
	castling CastlingRights
	fen      string
}

func (tp testPosition) build(t testing.TB) *Position {
	t.Helper()
	return fromDiagram(t, tp.diagram, tp.side, tp.castling, NoSquare)
}
