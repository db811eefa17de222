package engine

import (
	"fmt"
	"strings"
)

const boardSize = 8

// Square is a board coordinate. Row 0 is Black's back rank (rank 8) and
// row 7 is White's (rank 1); Col 0 is the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < boardSize && s.Col >= 0 && s.Col < boardSize
}

func (s Square) index() int {
	return s.Row*boardSize + s.Col
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, boardSize-s.Row)
}

// ParseSquare converts an algebraic coordinate such as "e2" into a Square.
func ParseSquare(name string) (Square, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	file, rank := name[0], name[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return Square{Row: boardSize - int(rank-'0'), Col: int(file - 'a')}, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
