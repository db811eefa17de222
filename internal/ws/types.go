package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages exchanged over a
// game socket
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeResign     MessageType = "resign"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage encodes payload under the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

// ErrorMessage reports err to a single client.
func ErrorMessage(err error) Message {
	raw, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	return Message{Type: MessageTypeError, Payload: raw}
}
