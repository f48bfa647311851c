package board

import "sort"

// promotionChoices lists the piece types a pawn may become, best first.
var promotionChoices = [4]PieceType{Queen, Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Each promotion choice counts as a separate move.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := expandPromotions(p.LegalMoves())
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove()
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  string
	Nodes uint64
}

// Divide runs perft below each root move, sorted by move text.
func (p *Position) Divide(depth int) []DivideEntry {
	if depth <= 0 {
		return nil
	}
	var out []DivideEntry
	for _, m := range expandPromotions(p.LegalMoves()) {
		p.MakeMove(m)
		out = append(out, DivideEntry{Move: m.String(), Nodes: p.Perft(depth - 1)})
		p.UnmakeMove()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move < out[j].Move })
	return out
}

// expandPromotions replaces each promotion with one move per promotion choice.
func expandPromotions(ml MoveList) MoveList {
	out := make(MoveList, 0, len(ml))
	for _, m := range ml {
		if !m.Promotion {
			out = append(out, m)
			continue
		}
		for _, pt := range promotionChoices {
			out = append(out, m.WithPromotion(pt))
		}
	}
	return out
}
