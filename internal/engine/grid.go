package engine

import "fmt"

// grid is the 8x8 occupancy of the board, indexed row-major.
type grid [boardSize * boardSize]Piece

func (g *grid) at(s Square) Piece {
	return g[s.index()]
}

func (g *grid) set(s Square, p Piece) {
	g[s.index()] = p
}

func (g *grid) clear(s Square) {
	g[s.index()] = Piece{}
}

func (g *grid) isEmpty(s Square) bool {
	return g[s.index()].IsEmpty()
}

// relocate moves the occupant of from onto to, discarding whatever was on to.
func (g *grid) relocate(from, to Square) {
	g[to.index()] = g[from.index()]
	g[from.index()] = Piece{}
}

// withMove returns the position that results from relocating from onto to.
// The receiver is left untouched.
func (g grid) withMove(from, to Square) grid {
	g.relocate(from, to)
	return g
}

func (g *grid) kingSquare(c Color) (Square, bool) {
	for i, p := range g {
		if p.Kind == King && p.Color == c {
			return Square{Row: i / boardSize, Col: i % boardSize}, true
		}
	}
	return Square{}, false
}

func (g *grid) mustKingSquare(c Color) Square {
	sq, ok := g.kingSquare(c)
	if !ok {
		panic(fmt.Errorf("%w: no %s king on the board", ErrInvariant, c))
	}
	return sq
}

// aligned reports whether two distinct squares share a rank, file or diagonal.
func aligned(from, to Square) bool {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	if dr == 0 && dc == 0 {
		return false
	}
	return dr == 0 || dc == 0 || abs(dr) == abs(dc)
}

// between lists the squares strictly between from and to along their shared
// line, nearest to from first. It is empty for adjacent or unaligned squares.
func between(from, to Square) []Square {
	if !aligned(from, to) {
		return nil
	}
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	var route []Square
	for s := Sq(from.Row+dr, from.Col+dc); s != to; s = Sq(s.Row+dr, s.Col+dc) {
		route = append(route, s)
	}
	return route
}

// isPathClear is the single obstruction test shared by the sliding-piece
// policies and the board's own gate. Unaligned moves have no path.
func (g *grid) isPathClear(from, to Square) bool {
	if !aligned(from, to) {
		return false
	}
	for _, s := range between(from, to) {
		if !g.isEmpty(s) {
			return false
		}
	}
	return true
}

// attackers lists the squares of every piece of color by whose policy reaches target.
func (g *grid) attackers(target Square, by Color) []Square {
	var found []Square
	for i, p := range g {
		if p.IsEmpty() || p.Color != by {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		if canReach(g, from, target) {
			found = append(found, from)
		}
	}
	return found
}

func (g *grid) isAttacked(target Square, by Color) bool {
	for i, p := range g {
		if p.IsEmpty() || p.Color != by {
			continue
		}
		if canReach(g, Square{Row: i / boardSize, Col: i % boardSize}, target) {
			return true
		}
	}
	return false
}

func (g *grid) kingInCheck(c Color) bool {
	return g.isAttacked(g.mustKingSquare(c), c.Opposite())
}
