package controller

import (
	"errors"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, engine.ErrIllegalMove):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidMove),
		errors.Is(err, engine.ErrInvalidSquare),
		errors.Is(err, engine.ErrInvalidPromotion):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNotInGame),
		errors.Is(err, model.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, engine.ErrGameOver),
		errors.Is(err, model.ErrGameFull),
		errors.Is(err, model.ErrTimeExpired),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
