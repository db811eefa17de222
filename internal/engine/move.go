package engine

// RookMove is the rook relocation that accompanies castling.
type RookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Ply describes one executed move.
type Ply struct {
	Piece      Piece     `json:"piece"`
	From       Square    `json:"from"`
	To         Square    `json:"to"`
	Captured   *Piece    `json:"capturedPiece"`
	CastleRook *RookMove `json:"castleRookMove"`
	EnPassant  bool      `json:"enPassant"`
	Promotion  Kind      `json:"promotion"`
}

// MovePiece plays from-to for the side to move, asking the board's promoter
// when a pawn reaches the last rank.
func (b *Board) MovePiece(from, to Square) (Ply, error) {
	return b.MovePromoting(from, to, b.promoter)
}

// MovePromoting is MovePiece with an explicit promoter for this move.
//
// A rejected move leaves the board unchanged, except that a rejected attempt
// by a side that is in check and has no legal move ends the game by
// checkmate. On success the turn passes to the opponent and the terminal
// state is recomputed for them.
func (b *Board) MovePromoting(from, to Square, promoter Promoter) (Ply, error) {
	if b.gameOver {
		return Ply{}, moveError(from, to, ErrGameOver)
	}

	mover := b.turn
	if !b.IsMoveValid(from, to, mover) {
		if b.IsKingInCheck(mover) && !b.HasAnyValidMove(mover) {
			b.gameOver = true
			b.checkmate = true
		}
		return Ply{}, moveError(from, to, ErrIllegalMove)
	}

	p := b.squares.at(from)
	ply := Ply{Piece: p, From: from, To: to}

	switch {
	case b.isCastlingAttempt(p, from, to):
		ply.CastleRook = b.castle(from, to)

	case b.isEnPassantCapture(p, from, to):
		victim := enPassantVictim(from, to)
		captured := b.squares.at(victim)
		ply.Captured = &captured
		ply.EnPassant = true

		b.squares.clear(victim)
		b.squares.relocate(from, to)
		b.markMoved(to)
		b.hasEnPassant = false

	default:
		// the promotion choice is settled before anything changes
		promotion := NoKind
		if p.Kind == Pawn && to.Row == mover.Opposite().backRow() {
			kind, err := choosePromotion(promoter, mover, to)
			if err != nil {
				return Ply{}, moveError(from, to, err)
			}
			promotion = kind
		}

		if captured, ok := b.PieceAt(to); ok {
			ply.Captured = &captured
		}
		b.squares.relocate(from, to)
		b.markMoved(to)

		if p.Kind == Pawn && abs(to.Row-from.Row) == 2 {
			b.enPassant = Sq((from.Row+to.Row)/2, from.Col)
			b.hasEnPassant = true
		} else {
			b.hasEnPassant = false
		}

		if promotion != NoKind {
			b.squares.set(to, Piece{Kind: promotion, Color: mover, Moved: true})
			ply.Promotion = promotion
		}
	}

	b.turn = mover.Opposite()
	b.updateTerminalState()
	return ply, nil
}

func (b *Board) markMoved(s Square) {
	p := b.squares.at(s)
	p.Moved = true
	b.squares.set(s, p)
}

func (b *Board) updateTerminalState() {
	switch {
	case b.IsCheckmate(b.turn):
		b.gameOver = true
		b.checkmate = true
	case b.IsStalemate(b.turn):
		b.gameOver = true
		b.stalemate = true
	}
}
