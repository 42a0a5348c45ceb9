package service

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrBotNotFound = errors.New("bot player not found")

type BotService interface {
	MakeTurn(game *entity.Game) error
}

type searcher interface {
	BestMove(b *board.Board, side board.Mark) (board.Move, bool)
}

type botService struct {
	searcher searcher
}

func NewBotService(searcher searcher) BotService {
	return &botService{
		searcher: searcher,
	}
}

// MakeTurn plays the optimal move for the bot player of game.
func (that *botService) MakeTurn(game *entity.Game) error {
	botPlayer := game.Bot()
	if botPlayer == nil {
		return ErrBotNotFound
	}

	if game.Turn != botPlayer.Mark {
		return apperror.ErrNotYourTurn
	}

	move, ok := that.searcher.BestMove(&game.Board, botPlayer.Mark)
	if !ok {
		return apperror.ErrNoAvailableMoves
	}

	if err := game.MakeTurn(botPlayer.Mark, move.Index()); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
