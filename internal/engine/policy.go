package engine

// canReach decides whether the piece on from could physically move to to,
// ignoring the safety of its own king. Castling and en passant are not
// covered here; the board authorizes them itself.
func canReach(g *grid, from, to Square) bool {
	if !from.InBounds() || !to.InBounds() || from == to {
		return false
	}
	p := g.at(from)
	switch p.Kind {
	case Pawn:
		return pawnCanReach(g, p, from, to)
	case Knight:
		return knightCanReach(g, p, from, to)
	case Bishop:
		return bishopCanReach(g, p, from, to)
	case Rook:
		return rookCanReach(g, p, from, to)
	case Queen:
		return queenCanReach(g, p, from, to)
	case King:
		return kingCanReach(g, p, from, to)
	}
	return false
}

// canLand reports whether p may finish its move on to: empty or enemy-held.
func canLand(g *grid, p Piece, to Square) bool {
	t := g.at(to)
	return t.IsEmpty() || t.Color != p.Color
}

func pawnCanReach(g *grid, p Piece, from, to Square) bool {
	dir := p.Color.forward()
	dr, dc := to.Row-from.Row, to.Col-from.Col

	if dc == 0 {
		// single step
		if dr == dir {
			return g.isEmpty(to)
		}
		// double step from the starting rank, both squares empty
		if dr == 2*dir && from.Row == p.Color.pawnStartRow() {
			return g.isEmpty(Sq(from.Row+dir, from.Col)) && g.isEmpty(to)
		}
		return false
	}

	if abs(dc) == 1 && dr == dir {
		t := g.at(to)
		return !t.IsEmpty() && t.Color != p.Color
	}
	return false
}

func knightCanReach(g *grid, p Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	if !(dr == 1 && dc == 2) && !(dr == 2 && dc == 1) {
		return false
	}
	return canLand(g, p, to)
}

func bishopCanReach(g *grid, p Piece, from, to Square) bool {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	if dr != dc || dr == 0 {
		return false
	}
	return g.isPathClear(from, to) && canLand(g, p, to)
}

func rookCanReach(g *grid, p Piece, from, to Square) bool {
	if (from.Row == to.Row) == (from.Col == to.Col) {
		return false
	}
	return g.isPathClear(from, to) && canLand(g, p, to)
}

func queenCanReach(g *grid, p Piece, from, to Square) bool {
	return bishopCanReach(g, p, from, to) || rookCanReach(g, p, from, to)
}

func kingCanReach(g *grid, p Piece, from, to Square) bool {
	if abs(to.Row-from.Row) > 1 || abs(to.Col-from.Col) > 1 {
		return false
	}
	return canLand(g, p, to)
}
