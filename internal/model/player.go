package model

import "github.com/benbeisheim/chess-backend/internal/engine"

type ClientPlayer struct {
	ID       string       `json:"name"`
	Color    engine.Color `json:"color"`
	TimeLeft int          `json:"timeLeft"` // tenths of a second
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p *Players) seat(c engine.Color) *ClientPlayer {
	if c == engine.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the side playerID sits on.
func (p *Players) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return engine.White, false
	case p.White.ID == playerID:
		return engine.White, true
	case p.Black.ID == playerID:
		return engine.Black, true
	}
	return engine.White, false
}

// MatchFoundEvent is sent to a queued player once an opponent is found.
type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}
