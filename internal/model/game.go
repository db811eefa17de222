package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/engine"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

const (
	ResolveCheckmate   = "checkmate"
	ResolveStalemate   = "stalemate"
	ResolveResignation = "resignation"
	ResolveTimeout     = "timeout"
)

// Observer is a live connection that receives state broadcasts.
// *websocket.Conn satisfies it.
type Observer interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Observer // playerID -> connection
	mu          sync.RWMutex

	// sendMu orders deliveries; sent is the newest state version delivered.
	sendMu sync.Mutex
	sent   uint64
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Observer),
	}
}

// Game is one session: an engine board, its players and clocks, and the
// observers watching it. All methods are safe for concurrent use; the board
// itself is only touched under mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *engine.Board
	state       GameState
	connections *GameConnections
	version     uint64 // bumped for every state change that is broadcast
	clockLimit  time.Duration
	whiteClock  *Clock
	blackClock  *Clock
}

type GameState struct {
	Sound           string         `json:"sound"`
	Board           *BoardState    `json:"boardState"`
	ToMove          engine.Color   `json:"toMove"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	IsCheck         bool           `json:"isCheck"`
	EnPassantTarget *engine.Square `json:"enPassantTarget"`
	Resolve         *string        `json:"resolve"`
	Winner          *engine.Color  `json:"winner"`
	Players         Players        `json:"players"`
	LastMove        *engine.Move   `json:"lastMove"`
}

func NewGame(id string, clockLimit time.Duration) *Game {
	g := &Game{
		ID:          id,
		connections: NewGameConnections(),
		clockLimit:  clockLimit,
	}
	g.reset()
	return g
}

// reset discards the board, clocks and history. Seated players stay.
func (g *Game) reset() {
	players := g.state.Players
	g.board = engine.NewBoard()
	g.whiteClock = NewClock(g.clockLimit)
	g.blackClock = NewClock(g.clockLimit)
	g.state = GameState{
		MoveHistory: make([]Move, 0),
		CapturedPieces: CapturedPieces{
			White: make([]engine.Piece, 0),
			Black: make([]engine.Piece, 0),
		},
		Players: players,
	}
	g.state.Players.White.Color = engine.White
	g.state.Players.Black.Color = engine.Black
	g.refreshState()
}

func (g *Game) clockFor(c engine.Color) *Clock {
	if c == engine.White {
		return g.whiteClock
	}
	return g.blackClock
}

// AddPlayer seats playerID on the first free side. A player already seated
// gets their side back.
func (g *Game) AddPlayer(playerID string) (engine.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.state.Players.colorOf(playerID); ok {
		return c, nil
	}
	for _, c := range []engine.Color{engine.White, engine.Black} {
		if seat := g.state.Players.seat(c); seat.ID == "" {
			seat.ID = playerID
			log.Infow("player seated", "game", g.ID, "player", playerID, "color", c)
			g.broadcastLocked()
			return c, nil
		}
	}
	return engine.White, ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshotLocked()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.state.Players.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// LegalMoves lists the destinations of the piece on from. A finished game
// has none.
func (g *Game) LegalMoves(from string) ([]engine.Square, error) {
	sq, err := engine.ParseSquare(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Resolve != nil {
		return []engine.Square{}, nil
	}
	moves := g.board.LegalMoves(sq)
	if moves == nil {
		moves = []engine.Square{}
	}
	return moves, nil
}

// MakeMove plays move for playerID, who must own the side to move.
func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Debugw("making move", "game", g.ID, "player", playerID, "move", move)

	if g.state.Resolve != nil {
		return engine.ErrGameOver
	}
	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.board.Turn() {
		return ErrNotYourTurn
	}

	from, err := engine.ParseSquare(move.From)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := engine.ParseSquare(move.To)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}

	clock := g.clockFor(color)
	if clock.Expired() {
		winner := color.Opposite()
		g.resolve(ResolveTimeout, &winner)
		g.broadcastLocked()
		return ErrTimeExpired
	}

	// Stop current player's clock
	wasRunning := clock.Running()
	clock.Stop()
	ply, err := g.board.MovePromoting(from, to, engine.FixedPromoter(move.Promotion))
	if err != nil {
		if g.board.IsGameOver() {
			// a failed attempt can uncover a mate nobody noticed
			g.refreshState()
			g.broadcastLocked()
		} else if wasRunning {
			clock.Start()
		}
		return err
	}

	g.recordPly(color, ply)
	g.refreshState()
	if g.state.Resolve == nil {
		// Start opposing players clock
		g.clockFor(color.Opposite()).Start()
	}
	log.Infow("move applied", "game", g.ID, "color", color, "from", from, "to", to, "status", g.board.Status())

	g.broadcastLocked()
	return nil
}

func (g *Game) recordPly(color engine.Color, ply engine.Ply) {
	switch {
	case ply.CastleRook != nil:
		g.state.Sound = "castle"
	case ply.Captured != nil:
		g.state.Sound = "capture"
	default:
		g.state.Sound = "move"
	}

	if ply.Captured != nil {
		switch color {
		case engine.White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *ply.Captured)
		case engine.Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *ply.Captured)
		}
	}

	// Add the ply to the move history
	if color == engine.White || len(g.state.MoveHistory) == 0 {
		m := Move{}
		if color == engine.White {
			m.WhitePly = &ply
		} else {
			m.BlackPly = &ply
		}
		g.state.MoveHistory = append(g.state.MoveHistory, m)
	} else {
		g.state.MoveHistory[len(g.state.MoveHistory)-1].BlackPly = &ply
	}
	g.state.LastMove = &engine.Move{From: ply.From, To: ply.To}
}

// refreshState copies the board's view of the game into the client state.
func (g *Game) refreshState() {
	g.state.Board = newBoardState(g.board)
	g.state.ToMove = g.board.Turn()
	g.state.EnPassantTarget = nil
	if target, ok := g.board.EnPassantTarget(); ok {
		g.state.EnPassantTarget = &target
	}

	switch g.board.Status() {
	case engine.Checkmate:
		g.state.IsCheck = true
		winner, _ := g.board.Winner()
		g.resolve(ResolveCheckmate, &winner)
	case engine.Stalemate:
		g.state.IsCheck = false
		g.resolve(ResolveStalemate, nil)
	case engine.Check:
		g.state.IsCheck = true
	default:
		g.state.IsCheck = false
	}
	if g.state.IsCheck && g.state.Sound != "" {
		g.state.Sound = "check"
	}
	g.state.Players.White.TimeLeft = g.whiteClock.tenths()
	g.state.Players.Black.TimeLeft = g.blackClock.tenths()
}

// resolve ends the game. winner is nil for a draw.
func (g *Game) resolve(result string, winner *engine.Color) {
	g.whiteClock.Stop()
	g.blackClock.Stop()
	g.state.Resolve = &result
	g.state.Winner = winner
	log.Infow("game resolved", "game", g.ID, "result", result)
}

// Resign ends the game in favour of playerID's opponent.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.state.Players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if g.state.Resolve != nil {
		return engine.ErrGameOver
	}
	winner := color.Opposite()
	g.resolve(ResolveResignation, &winner)
	g.state.Players.White.TimeLeft = g.whiteClock.tenths()
	g.state.Players.Black.TimeLeft = g.blackClock.tenths()
	g.broadcastLocked()
	return nil
}

// Restart starts a fresh game with the same players.
func (g *Game) Restart(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.state.Players.colorOf(playerID); !ok {
		return ErrNotInGame
	}
	g.reset()
	log.Infow("game restarted", "game", g.ID, "player", playerID)
	g.broadcastLocked()
	return nil
}

// snapshotLocked copies the state so it can leave the lock.
func (g *Game) snapshotLocked() GameState {
	s := g.state
	s.MoveHistory = append([]Move(nil), g.state.MoveHistory...)
	s.CapturedPieces.White = append([]engine.Piece(nil), g.state.CapturedPieces.White...)
	s.CapturedPieces.Black = append([]engine.Piece(nil), g.state.CapturedPieces.Black...)
	s.Players.White.TimeLeft = g.whiteClock.tenths()
	s.Players.Black.TimeLeft = g.blackClock.tenths()
	return s
}

func (g *Game) RegisterConnection(playerID string, conn Observer) error {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	g.mu.Lock()
	_, seated := g.state.Players.colorOf(playerID)
	isAuthorized := seated || g.canSpectate()
	state := g.snapshotLocked()
	version := g.version
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection and turn the new one away
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infow("connection registered", "game", g.ID, "player", playerID)

	// no newer state can have gone out while sendMu is held
	g.connections.sent = version
	g.sendLocked(state)
	return nil
}

// UnregisterConnection drops playerID's connection if conn is still the
// registered one.
func (g *Game) UnregisterConnection(playerID string, conn Observer) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Infow("connection unregistered", "game", g.ID, "player", playerID)
	}
}

func (g *Game) broadcastLocked() {
	g.version++
	go g.broadcastState(g.version, g.snapshotLocked())
}

// broadcastState delivers the state tagged version unless a newer one
// already went out, so observers never step back to an older board.
func (g *Game) broadcastState(version uint64, state GameState) {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	if version <= g.connections.sent {
		return
	}
	g.connections.sent = version
	g.sendLocked(state)
}

// sendLocked writes state to every observer. Callers hold sendMu.
func (g *Game) sendLocked(state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorw("failed to marshal state", "game", g.ID, "error", err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]Observer, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnw("failed to send state", "game", g.ID, "player", playerID, "error", err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}
