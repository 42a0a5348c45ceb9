package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

const (
	x = board.X
	o = board.O
	e = board.Empty
)

func newBotService() BotService {
	return NewBotService(search.New(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func newBotGame(b board.Board, turn, botMark board.Mark) *entity.Game {
	return &entity.Game{
		ID:     "123",
		Board:  b,
		Status: entity.StatusOngoing,
		Turn:   turn,
		Type:   entity.WithBotType,
		Players: []*entity.Player{
			{ID: "human", Mark: botMark.Opponent(), GameID: "123"},
			entity.NewBotPlayer("bot", "123", botMark),
		},
	}
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Blocks the human threat", func(t *testing.T) {
		// Given: X threatens the top row and the bot plays O
		game := newBotGame(board.Board{{x, x, e}, {e, o, e}, {e, e, e}}, o, o)

		// When: the bot makes its turn
		err := newBotService().MakeTurn(game)

		// Then: it blocks at cell 2 and hands the turn back
		require.NoError(t, err)
		assert.Equal(t, o, game.Board.At(board.Move{Row: 0, Col: 2}))
		assert.Equal(t, x, game.Turn)
		assert.True(t, game.IsOngoing())
	})

	t.Run("Takes the win and finishes the game", func(t *testing.T) {
		game := newBotGame(board.Board{{o, x, x}, {e, o, e}, {x, e, e}}, o, o)

		err := newBotService().MakeTurn(game)

		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, o, game.Winner)
	})

	t.Run("Opens in the first corner as X", func(t *testing.T) {
		game := newBotGame(board.New(), x, x)

		require.NoError(t, newBotService().MakeTurn(game))

		assert.Equal(t, x, game.Board.At(board.Move{Row: 0, Col: 0}))
		assert.Equal(t, 1, game.Board.Count(x))
	})

	t.Run("Error when the game has no bot", func(t *testing.T) {
		game := newBotGame(board.New(), x, x)
		game.Players = game.Players[:1]

		assert.ErrorIs(t, newBotService().MakeTurn(game), ErrBotNotFound)
	})

	t.Run("Error when it is not the bot's turn", func(t *testing.T) {
		game := newBotGame(board.New(), x, o)

		assert.ErrorIs(t, newBotService().MakeTurn(game), apperror.ErrNotYourTurn)
	})

	t.Run("Error on a full board", func(t *testing.T) {
		game := newBotGame(board.Board{{x, o, x}, {x, o, o}, {o, x, x}}, o, o)

		assert.ErrorIs(t, newBotService().MakeTurn(game), apperror.ErrNoAvailableMoves)
	})
}
