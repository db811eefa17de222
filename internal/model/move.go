package model

import "github.com/benbeisheim/chess-backend/internal/engine"

// WSMove is a move request as sent by clients: algebraic squares and an
// optional promotion token.
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

// Move pairs White's ply with Black's reply.
type Move struct {
	WhitePly *engine.Ply `json:"whitePly"`
	BlackPly *engine.Ply `json:"blackPly"`
}

type CapturedPieces struct {
	White []engine.Piece `json:"white"`
	Black []engine.Piece `json:"black"`
}
