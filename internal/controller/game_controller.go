package controller

import (
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		log.Debugw("join rejected", "game", gameID, "player", playerID, "error", err)
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves lists the destinations of the piece on ?from=.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := c.Query("from")
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return errorResponse(c, err)
	}

	names := make([]string, 0, len(moves))
	for _, sq := range moves {
		names = append(names, sq.String())
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": names,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.WSMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move payload",
		})
	}

	gameState, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), move)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameState, err := gc.gameService.Resign(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Restart(c *fiber.Ctx) error {
	gameState, err := gc.gameService.Restart(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "player not in queue",
		})
	}

	return c.JSON(fiber.Map{
		"status": "left",
	})
}
