package model

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidMove   = errors.New("invalid move")
	ErrTimeExpired   = errors.New("time expired")
	ErrAlreadyQueued = errors.New("player already in queue")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)
