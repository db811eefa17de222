package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serializes writes; broadcasts and replies share one socket.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (lc *lockedConn) WriteJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.Conn.WriteJSON(v)
}

func (lc *lockedConn) WriteMessage(messageType int, data []byte) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.Conn.WriteMessage(messageType, data)
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &lockedConn{Conn: c}

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		conn.WriteJSON(ws.ErrorMessage(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("socket closed", "game", gameID, "player", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			conn.WriteJSON(ws.ErrorMessage(fmt.Errorf("malformed message: %w", err)))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugw("message rejected", "game", gameID, "player", playerID, "type", msg.Type, "error", err)
			conn.WriteJSON(ws.ErrorMessage(err))
		}
	}
}

// Handle different types of incoming messages. State changes reach the
// client through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("%w: %v", model.ErrInvalidMove, err)
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeResign:
		_, err := wsc.gameService.Resign(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking holds a socket open until the player is matched, then
// sends the match and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	matchCh := make(chan string, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, matchCh)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, matchCh)

	// the read loop only notices the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-matchCh:
		if !ok {
			// replaced by a newer socket
			c.Close()
			return
		}
		msg := ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}
		if err := c.WriteJSON(msg); err != nil {
			log.Warnw("failed to send match", "player", playerID, "error", err)
		}
		c.Close()
	case <-gone:
		if wsc.gameService.LeaveMatchmaking(playerID) {
			log.Infow("player left matchmaking", "player", playerID)
		}
	}
}
