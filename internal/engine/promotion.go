package engine

import (
	"fmt"
	"strings"
)

// Promoter supplies the piece a pawn turns into on the last rank. The board
// keeps asking until it gets a valid token; returning an error abandons the
// move.
type Promoter interface {
	PromotionChoice(c Color, at Square) (string, error)
}

type PromoterFunc func(c Color, at Square) (string, error)

func (f PromoterFunc) PromotionChoice(c Color, at Square) (string, error) {
	return f(c, at)
}

// ParsePromotion accepts Q, R, B or N (any case) or the full piece name.
func ParsePromotion(token string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "q", "queen":
		return Queen, nil
	case "r", "rook":
		return Rook, nil
	case "b", "bishop":
		return Bishop, nil
	case "n", "knight":
		return Knight, nil
	}
	return NoKind, fmt.Errorf("%w: %q", ErrInvalidPromotion, token)
}

// FixedPromoter answers with token once. If the token is rejected, the
// re-prompt fails with ErrInvalidPromotion.
func FixedPromoter(token string) Promoter {
	asked := false
	return PromoterFunc(func(Color, Square) (string, error) {
		if asked {
			return "", fmt.Errorf("%w: %q", ErrInvalidPromotion, token)
		}
		asked = true
		return token, nil
	})
}

func choosePromotion(p Promoter, c Color, at Square) (Kind, error) {
	if p == nil {
		return NoKind, fmt.Errorf("%w: no promoter for %s pawn on %s", ErrInvalidPromotion, c, at)
	}
	for {
		token, err := p.PromotionChoice(c, at)
		if err != nil {
			return NoKind, err
		}
		if kind, err := ParsePromotion(token); err == nil {
			return kind, nil
		}
	}
}
