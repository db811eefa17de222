package engine

// IsMoveValid reports whether the piece of color c standing on from may move
// to to. Castling and en passant are authorized here; every other move must
// pass the piece policy, the path gate and the self-check simulation.
func (b *Board) IsMoveValid(from, to Square, c Color) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	p := b.squares.at(from)
	if p.IsEmpty() || p.Color != c {
		return false
	}

	if b.isCastlingAttempt(p, from, to) {
		return b.isCastlingValid(from, castlingRookSquare(from, to), c)
	}
	if b.isEnPassantCapture(p, from, to) {
		return !b.enPassantExposesKing(from, to, c)
	}

	if !canReach(&b.squares, from, to) {
		return false
	}
	if p.Kind != Knight && !b.squares.isPathClear(from, to) {
		return false
	}
	return !b.DoesMovePutKingInCheck(from, to, c)
}

// DoesMovePutKingInCheck evaluates the position after relocating the piece on
// from to to and reports whether the king of c is attacked there. The board
// itself is never modified. A hypothetical position without a king of c
// counts as check.
func (b *Board) DoesMovePutKingInCheck(from, to Square, c Color) bool {
	if !from.InBounds() || !to.InBounds() {
		return false
	}
	after := b.squares.withMove(from, to)
	return kingExposed(&after, c)
}

func kingExposed(g *grid, c Color) bool {
	king, ok := g.kingSquare(c)
	if !ok {
		return true
	}
	return g.isAttacked(king, c.Opposite())
}

func (b *Board) isEnPassantCapture(p Piece, from, to Square) bool {
	if p.Kind != Pawn || !b.hasEnPassant || to != b.enPassant {
		return false
	}
	if abs(to.Col-from.Col) != 1 || to.Row-from.Row != p.Color.forward() {
		return false
	}
	victim := b.squares.at(enPassantVictim(from, to))
	return victim.Kind == Pawn && victim.Color != p.Color
}

// enPassantVictim is the square of the pawn taken en passant: beside the
// destination, on the rank the capturing pawn leaves.
func enPassantVictim(from, to Square) Square {
	return Sq(from.Row, to.Col)
}

func (b *Board) enPassantExposesKing(from, to Square, c Color) bool {
	after := b.squares.withMove(from, to)
	after.clear(enPassantVictim(from, to))
	return kingExposed(&after, c)
}

// LegalMoves lists every destination the piece on from may move to.
func (b *Board) LegalMoves(from Square) []Square {
	p, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	var moves []Square
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			if to := Sq(r, c); b.IsMoveValid(from, to, p.Color) {
				moves = append(moves, to)
			}
		}
	}
	return moves
}

// Move is an origin/destination pair.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// AllLegalMoves lists every legal move of color c, ordered by origin then destination.
func (b *Board) AllLegalMoves(c Color) []Move {
	var moves []Move
	for i, p := range b.squares {
		if p.IsEmpty() || p.Color != c {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		for _, to := range b.LegalMoves(from) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}
