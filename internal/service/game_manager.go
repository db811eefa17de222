// service/game_manager.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	clockLimit       time.Duration
	mu               sync.RWMutex
}

func NewGameManager(clockLimit time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		clockLimit:       clockLimit,
	}
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugw("registering matchmaking channel", "player", playerID)

	// A second socket for the same player replaces the first
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch if it is still playerID's channel.
// The channel is not closed here; its creator owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

// RunMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) RunMatchmaking(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("matchmaking stopped")
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers drains the queue two players at a time and returns the ids of
// the games it created.
func (gm *GameManager) matchPlayers() []string {
	var created []string
	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return created
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.clockLimit)
		p1Color, err := game.AddPlayer(player1)
		if err != nil {
			log.Errorw("failed to seat matched player", "game", gameID, "player", player1, "error", err)
			continue
		}
		p2Color, err := game.AddPlayer(player2)
		if err != nil {
			log.Errorw("failed to seat matched player", "game", gameID, "player", player2, "error", err)
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		sent1 := gm.notifyMatch(player1, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		sent2 := gm.notifyMatch(player2, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
		gm.mu.Unlock()

		if !sent1 || !sent2 {
			log.Warnw("failed to notify all players of match", "game", gameID)
		}
		log.Infow("match created", "game", gameID, "white", player1, "black", player2)
		created = append(created, gameID)
	}
}

// notifyMatch sends event on playerID's channel and retires the channel.
// Callers hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorw("failed to marshal match event", "player", playerID, "error", err)
		return false
	}

	select {
	case ch <- string(payload):
		delete(gm.matchingChannels, playerID)
		close(ch)
		return true
	default:
		return false
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}

	gm.games[gameID] = model.NewGame(gameID, gm.clockLimit)
	log.Infow("game created", "game", gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (engine.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return engine.White, err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		return fmt.Errorf("join matchmaking: %w", err)
	}
	log.Infow("player queued", "player", playerID, "queued", gm.queue.Size())
	return nil
}

// LeaveMatchmaking reports whether playerID was waiting.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from string) ([]engine.Square, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) Resign(gameID string, playerID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Resign(playerID); err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) Restart(gameID string, playerID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	if err := game.Restart(playerID); err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Observer) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Observer) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
