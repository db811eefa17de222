package engine

// IsKingInCheck reports whether any opposing piece can reach the king of c.
func (b *Board) IsKingInCheck(c Color) bool {
	return b.squares.kingInCheck(c)
}

// IsCheckmate reports whether c is in check with no way out: no king step
// escapes, and the check is either double or its single attacker can be
// neither captured nor blocked.
func (b *Board) IsCheckmate(c Color) bool {
	if !b.IsKingInCheck(c) {
		return false
	}
	king := b.KingSquare(c)

	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			to := Sq(king.Row+dr, king.Col+dc)
			if to == king || !to.InBounds() {
				continue
			}
			if t := b.squares.at(to); !t.IsEmpty() && t.Color == c {
				continue
			}
			if after := b.squares.withMove(king, to); !kingExposed(&after, c) {
				return false
			}
		}
	}

	attackers := b.squares.attackers(king, c.Opposite())
	if len(attackers) > 1 {
		return true
	}
	if len(attackers) == 0 {
		return false
	}

	attacker := attackers[0]
	targets := append([]Square{attacker}, b.AttackRoute(attacker, king)...)
	// a checking pawn that just double stepped can also be taken en passant
	if c == b.turn && b.hasEnPassant && Sq(b.enPassant.Row-c.forward(), b.enPassant.Col) == attacker {
		targets = append(targets, b.enPassant)
	}

	for i, p := range b.squares {
		if p.IsEmpty() || p.Color != c {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		for _, to := range targets {
			if b.IsMoveValid(from, to, c) {
				return false
			}
		}
	}
	return true
}

// IsStalemate reports whether c is not in check but has no legal move.
func (b *Board) IsStalemate(c Color) bool {
	if b.IsKingInCheck(c) {
		return false
	}
	return !b.HasAnyValidMove(c)
}

// HasAnyValidMove looks for a legal move of c, trying king steps first.
func (b *Board) HasAnyValidMove(c Color) bool {
	king := b.KingSquare(c)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if to := Sq(king.Row+dr, king.Col+dc); to != king && b.IsMoveValid(king, to, c) {
				return true
			}
		}
	}

	for i, p := range b.squares {
		if p.IsEmpty() || p.Color != c || p.Kind == King {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		for r := 0; r < boardSize; r++ {
			for col := 0; col < boardSize; col++ {
				if b.IsMoveValid(from, Sq(r, col), c) {
					return true
				}
			}
		}
	}
	return false
}

// AttackRoute returns the squares strictly between an attacker and the king
// it checks, nearest to the attacker first. Adjacent or unaligned attackers
// (knights) have an empty route.
func (b *Board) AttackRoute(attacker, king Square) []Square {
	return between(attacker, king)
}
