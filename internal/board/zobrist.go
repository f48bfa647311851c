package board

// Zobrist keys for position hashing, drawn from a PRNG with a fixed seed so
// hashes are stable across runs.
var (
	zobristPiece      [BlackKing + 1][64]uint64 // [Piece][Square]; row NoPiece stays zero
	zobristEnPassant  [8]uint64                 // one per file
	zobristCastling   [16]uint64                // all 16 castling combinations
	zobristSideToMove uint64                    // XOR when black to move
)

func init() {
	initZobrist()
}

type prng struct {
	state uint64
}

// xorshift64*
func (r *prng) next() uint64 {
	r.state ^= r.state >> 12
	r.state ^= r.state << 25
	r.state ^= r.state >> 27
	return r.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for pc := WhitePawn; pc <= BlackKing; pc++ {
		for sq := A8; sq <= H1; sq++ {
			zobristPiece[pc][sq] = rng.next()
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist key of the position: pieces, side to move,
// castling rights and, when a pawn of the side to move stands ready to take
// it, the en passant file. Positions that repeat share a key.
func (p *Position) Hash() uint64 {
	var h uint64
	for sq := A8; sq <= H1; sq++ {
		h ^= zobristPiece[p.board.At(sq)][sq]
	}
	if p.sideToMove == Black {
		h ^= zobristSideToMove
	}
	h ^= zobristCastling[p.castling&AllCastling]
	if p.enPassantCapturable() {
		h ^= zobristEnPassant[p.enPassant.Col()]
	}
	return h
}

// enPassantCapturable reports whether a pawn of the side to move is adjacent
// to the pawn that just double-stepped.
func (p *Position) enPassantCapturable() bool {
	if p.enPassant == NoSquare {
		return false
	}
	us := p.sideToMove
	for _, dc := range [2]int{-1, 1} {
		if from, ok := p.enPassant.Offset(-pawnDirection(us), dc); ok && p.board.At(from).Is(us, Pawn) {
			return true
		}
	}
	return false
}
