package engine

// Board is the state of one game: the occupancy grid, the side to move,
// the en passant target and the terminal flags. A Board is owned by a single
// game session and is not safe for concurrent use.
type Board struct {
	squares      grid
	turn         Color
	enPassant    Square
	hasEnPassant bool
	gameOver     bool
	checkmate    bool
	stalemate    bool
	promoter     Promoter
}

type Option func(*Board)

// WithPromoter sets the collaborator asked for a piece whenever a pawn
// reaches the last rank through MovePiece.
func WithPromoter(p Promoter) Option {
	return func(b *Board) {
		b.promoter = p
	}
}

var backRank = [boardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board set up in the standard starting position with
// White to move.
func NewBoard(opts ...Option) *Board {
	b := &Board{turn: White}
	for col, kind := range backRank {
		b.squares.set(Sq(0, col), NewPiece(kind, Black))
		b.squares.set(Sq(1, col), NewPiece(Pawn, Black))
		b.squares.set(Sq(6, col), NewPiece(Pawn, White))
		b.squares.set(Sq(7, col), NewPiece(kind, White))
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Turn() Color {
	return b.turn
}

func (b *Board) IsGameOver() bool {
	return b.gameOver
}

// PieceAt returns the occupant of s and whether there is one.
func (b *Board) PieceAt(s Square) (Piece, bool) {
	if !s.InBounds() {
		return Piece{}, false
	}
	p := b.squares.at(s)
	return p, !p.IsEmpty()
}

// IsEmpty reports whether s holds no piece. Off-board squares are not empty.
func (b *Board) IsEmpty(s Square) bool {
	return s.InBounds() && b.squares.isEmpty(s)
}

// EnPassantTarget returns the square skipped by a pawn double step on the
// previous ply, if any.
func (b *Board) EnPassantTarget() (Square, bool) {
	return b.enPassant, b.hasEnPassant
}

// KingSquare returns where the king of c stands. It panics with ErrInvariant
// when there is none.
func (b *Board) KingSquare(c Color) Square {
	return b.squares.mustKingSquare(c)
}

// Snapshot copies the grid row by row, nil for empty squares.
func (b *Board) Snapshot() [][]*Piece {
	rows := make([][]*Piece, boardSize)
	for r := range rows {
		rows[r] = make([]*Piece, boardSize)
		for c := range rows[r] {
			if p := b.squares.at(Sq(r, c)); !p.IsEmpty() {
				rows[r][c] = &p
			}
		}
	}
	return rows
}

// String renders the board as eight lines of symbols, rank 8 first.
func (b *Board) String() string {
	buf := make([]byte, 0, boardSize*(boardSize+1))
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			buf = append(buf, b.squares.at(Sq(r, c)).Symbol())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

// Status describes the position from the point of view of the side to move.
func (b *Board) Status() Status {
	switch {
	case b.checkmate:
		return Checkmate
	case b.stalemate:
		return Stalemate
	case b.IsKingInCheck(b.turn):
		return Check
	}
	return Ongoing
}

// Winner returns the side that delivered checkmate.
func (b *Board) Winner() (Color, bool) {
	if !b.checkmate {
		return White, false
	}
	return b.turn.Opposite(), true
}
