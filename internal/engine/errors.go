package engine

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove      = errors.New("illegal move")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidPromotion = errors.New("invalid promotion choice")
	ErrInvalidSquare    = errors.New("invalid square")
	ErrInvariant        = errors.New("board invariant violated")
)

// MoveError wraps a rejected move attempt with the squares involved.
type MoveError struct {
	From Square
	To   Square
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s-%s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func moveError(from, to Square, err error) error {
	return &MoveError{From: from, To: to, Err: err}
}
