package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionConnect   = "connect"
	actionGameNew   = "game:new"
	actionGameTurn  = "game:turn"
	actionGameState = "game:state"
	actionError     = "error"

	sessionCookieName = "user_session"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player  *entity.Player `json:"player,omitempty"`
	Game    *entity.Game   `json:"game,omitempty"`
	Mark    string         `json:"mark,omitempty"`
	Cell    *int           `json:"cell,omitempty"`
	Action  string         `json:"action,omitempty"`
	Message string         `json:"message,omitempty"`
}

type connection struct {
	ws        *websocket.Conn
	sessionID string

	// playerID is set by a successful connect.
	playerID string
}

func (that *connection) send(action string, payload Payload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sendError reports a failed action to the client. action is echoed back so
// the client knows which request failed.
func (that *connection) sendError(action, message string) error {
	return that.send(actionError, Payload{Action: action, Message: message})
}
