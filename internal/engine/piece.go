package engine

import (
	"fmt"
	"strings"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// forward is the row delta of a pawn advance for the color.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c Color) pawnStartRow() int {
	if c == White {
		return 6
	}
	return 1
}

func (c Color) backRow() int {
	if c == White {
		return 7
	}
	return 0
}

// Kind is the closed set of piece variants. The zero value marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var kindNames = [...]string{
	NoKind: "",
	King:   "king",
	Queen:  "queen",
	Rook:   "rook",
	Bishop: "bishop",
	Knight: "knight",
	Pawn:   "pawn",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Letter is the upper-case notation letter of the kind.
func (k Kind) Letter() byte {
	switch k {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '.'
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

// Piece is the occupant of a square. The zero Piece is an empty square.
type Piece struct {
	Kind  Kind  `json:"type"`
	Color Color `json:"color"`
	Moved bool  `json:"hasMoved"`
}

func NewPiece(kind Kind, color Color) Piece {
	return Piece{Kind: kind, Color: color}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Symbol is the display symbol: upper case for White, lower case for Black.
func (p Piece) Symbol() byte {
	if p.IsEmpty() {
		return '.'
	}
	l := p.Kind.Letter()
	if p.Color == Black {
		return l + ('a' - 'A')
	}
	return l
}
