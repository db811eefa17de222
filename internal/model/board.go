package model

import "github.com/benbeisheim/chess-backend/internal/engine"

// BoardState is the board as clients draw it.
type BoardState struct {
	Board             [][]*engine.Piece `json:"board"`
	BlackKingPosition engine.Square     `json:"blackKingPosition"`
	WhiteKingPosition engine.Square     `json:"whiteKingPosition"`
}

func newBoardState(b *engine.Board) *BoardState {
	return &BoardState{
		Board:             b.Snapshot(),
		BlackKingPosition: b.KingSquare(engine.Black),
		WhiteKingPosition: b.KingSquare(engine.White),
	}
}
