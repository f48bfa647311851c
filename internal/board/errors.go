package board

import "errors"

// Sentinel errors returned by the engine. Use errors.Is to test for them.
var (
	// ErrIllegalMove indicates a move that is not in the current legal move set.
	ErrIllegalMove = errors.New("illegal move")

	// ErrNoMoveToUndo indicates Undo was called with an empty move log.
	ErrNoMoveToUndo = errors.New("no move to undo")

	// ErrInvalidSquare indicates coordinates or notation outside the board.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidPromotion indicates a promotion to a pawn or a king, or a
	// promotion piece given for a move that does not promote.
	ErrInvalidPromotion = errors.New("invalid promotion piece")

	// ErrInvalidPosition indicates a custom setup that breaks the position invariants.
	ErrInvalidPosition = errors.New("invalid position")
)
