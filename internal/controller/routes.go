package controller

import (
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API and the game sockets on app.
func RegisterRoutes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}

	// Set up WebSocket routes
	sockets := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	sockets.Get("/game/:gameId", websocket.New(wsc.HandleConnection, wsConfig))
	sockets.Get("/matchmaking", websocket.New(wsc.HandleMatchmaking, wsConfig))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	// Game routes
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves", gc.LegalMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/resign", gc.Resign)
	gameRoutes.Post("/:gameId/restart", gc.Restart)
}
