package entity

import "github.com/rocketscienceinc/tictactoe-engine/internal/board"

type Player struct {
	ID     string     `json:"id"`
	Mark   board.Mark `json:"mark,omitempty"`
	GameID string     `json:"game_id,omitempty"`
	Bot    bool       `json:"bot,omitempty"`
}

// NewBotPlayer creates the computer opponent for a game.
func NewBotPlayer(id, gameID string, mark board.Mark) *Player {
	return &Player{
		ID:     id,
		Mark:   mark,
		GameID: gameID,
		Bot:    true,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}
