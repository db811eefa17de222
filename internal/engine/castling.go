package engine

func (b *Board) isCastlingAttempt(p Piece, from, to Square) bool {
	return p.Kind == King && !p.Moved && from.Row == to.Row && abs(to.Col-from.Col) == 2
}

// castlingRookSquare picks the corner rook on the side the king travels to.
func castlingRookSquare(from, to Square) Square {
	if to.Col > from.Col {
		return Sq(from.Row, boardSize-1)
	}
	return Sq(from.Row, 0)
}

func (b *Board) isCastlingValid(king, rook Square, c Color) bool {
	if king.Row != rook.Row {
		return false
	}
	k, r := b.squares.at(king), b.squares.at(rook)
	if k.Kind != King || k.Color != c || r.Kind != Rook || r.Color != c {
		return false
	}
	if k.Moved || r.Moved {
		return false
	}
	if !b.squares.isPathClear(king, rook) {
		return false
	}
	if b.squares.kingInCheck(c) {
		return false
	}

	// the king may not cross or land on an attacked square
	dir := sign(rook.Col - king.Col)
	for step := 1; step <= 2; step++ {
		if b.DoesMovePutKingInCheck(king, Sq(king.Row, king.Col+step*dir), c) {
			return false
		}
	}
	return true
}

// castle moves the king two squares toward the rook and the rook to the
// square the king crossed. Legality has been checked by the caller.
func (b *Board) castle(from, to Square) *RookMove {
	rookFrom := castlingRookSquare(from, to)
	rookTo := Sq(from.Row, to.Col-sign(to.Col-from.Col))

	b.squares.relocate(from, to)
	b.markMoved(to)
	b.squares.relocate(rookFrom, rookTo)
	b.markMoved(rookTo)

	b.hasEnPassant = false
	return &RookMove{From: rookFrom, To: rookTo}
}

// Castle plays the king-side or queen-side castling of the side to move.
func (b *Board) Castle(kingSide bool) (Ply, error) {
	row := b.turn.backRow()
	to := Sq(row, 2)
	if kingSide {
		to = Sq(row, 6)
	}
	return b.MovePiece(Sq(row, 4), to)
}
