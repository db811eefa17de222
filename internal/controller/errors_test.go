package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("lookup: %w", service.ErrGameNotFound), fiber.StatusNotFound},
		{&engine.MoveError{Err: engine.ErrIllegalMove}, fiber.StatusUnprocessableEntity},
		{&engine.MoveError{Err: engine.ErrInvalidPromotion}, fiber.StatusBadRequest},
		{model.ErrInvalidMove, fiber.StatusBadRequest},
		{model.ErrNotYourTurn, fiber.StatusForbidden},
		{model.ErrNotInGame, fiber.StatusForbidden},
		{&engine.MoveError{Err: engine.ErrGameOver}, fiber.StatusConflict},
		{model.ErrGameFull, fiber.StatusConflict},
		{model.ErrTimeExpired, fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
