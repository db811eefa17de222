package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (engine.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) (model.GameState, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) LegalMoves(gameID string, from string) ([]engine.Square, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) Resign(gameID string, playerID string) (model.GameState, error) {
	return gs.gameManager.Resign(gameID, playerID)
}

func (gs *GameService) Restart(gameID string, playerID string) (model.GameState, error) {
	return gs.gameManager.Restart(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Observer) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Observer) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
