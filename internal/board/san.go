package board

import (
	"fmt"
	"strings"
)

// SAN renders a legal move in Standard Algebraic Notation, with "+" or "#"
// appended when it gives check or mate. Moves that are not legal in the
// position fall back to coordinate notation.
func (p *Position) SAN(m Move) string {
	checkmate, stalemate := p.checkmate, p.stalemate
	defer func() { p.checkmate, p.stalemate = checkmate, stalemate }()

	legal := p.LegalMoves()
	lm, ok := legal.Find(m.From, m.To)
	if !ok {
		return m.String()
	}
	lm.PromoteTo = m.PromoteTo
	return p.san(lm, legal)
}

// san renders lm, which must be one of legal.
func (p *Position) san(lm Move, legal MoveList) string {
	var sb strings.Builder

	if lm.Castle {
		if lm.To.Col() > lm.From.Col() {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
	} else {
		pt := lm.Moved.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt-1])
			sb.WriteString(disambiguation(lm, legal))
		}
		if lm.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(lm.From.Col()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(lm.To.String())
		if lm.Promotion {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[lm.Promoted()-1])
		}
	}

	p.MakeMove(lm)
	replies := p.LegalMoves()
	if p.checkmate {
		sb.WriteByte('#')
	} else if len(replies) > 0 && p.InCheck() {
		sb.WriteByte('+')
	}
	p.UnmakeMove()

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart from
// other pieces of the same kind that can reach the same square.
func disambiguation(m Move, legal MoveList) string {
	sameFile, sameRank, ambiguous := false, false, false
	for _, o := range legal {
		if o.To != m.To || o.From == m.From || o.Moved != m.Moved {
			continue
		}
		ambiguous = true
		if o.From.Col() == m.From.Col() {
			sameFile = true
		}
		if o.From.Row() == m.From.Row() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + m.From.Col()))
	case !sameRank:
		return string(rune('8' - m.From.Row()))
	default:
		return m.From.String()
	}
}

// ParseSAN resolves a move written in Standard Algebraic Notation ("Nf3",
// "exd5", "e8=N", "O-O") against the legal moves of the position. Check marks
// and annotations are ignored.
func (p *Position) ParseSAN(s string) (Move, error) {
	checkmate, stalemate := p.checkmate, p.stalemate
	defer func() { p.checkmate, p.stalemate = checkmate, stalemate }()

	want := normalizeSAN(s)
	if want == "" {
		return NoMove, fmt.Errorf("%w: empty move", ErrIllegalMove)
	}

	legal := p.LegalMoves()
	for _, m := range legal {
		candidates := []Move{m}
		if m.Promotion {
			candidates = []Move{
				m.WithPromotion(Queen), m.WithPromotion(Rook),
				m.WithPromotion(Bishop), m.WithPromotion(Knight),
			}
		}
		for _, c := range candidates {
			got := normalizeSAN(p.san(c, legal))
			if got == want {
				return c, nil
			}
			// A promotion without a piece letter is a queen.
			if c.PromoteTo == Queen && strings.TrimSuffix(got, "Q") == want {
				return c, nil
			}
		}
	}
	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
}

// normalizeSAN strips check marks and annotations, accepts zeros for
// castling and reduces a promotion suffix to its uppercase letter ("e8=q"
// and "e8Q" both become "e8Q").
func normalizeSAN(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")
	s = strings.ReplaceAll(s, "0", "O")
	s = strings.ReplaceAll(s, "=", "")
	if n := len(s); n >= 2 && s[n-2] >= '1' && s[n-2] <= '8' && strings.IndexByte("qrbn", s[n-1]) >= 0 {
		s = s[:n-1] + strings.ToUpper(s[n-1:])
	}
	return s
}

// SANHistory renders the moves applied to the position, oldest first.
func (p *Position) SANHistory() []string {
	moves := p.MoveLog()
	replay := p.Copy()
	for range moves {
		replay.UnmakeMove()
	}

	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, replay.SAN(m))
		replay.MakeMove(m)
	}
	return out
}
