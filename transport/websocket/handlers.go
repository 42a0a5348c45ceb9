package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func (that *Server) handleConnect(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, ok := that.decodePayload(conn, msg)
	if !ok {
		return conn.sendError(msg.Action, "invalid payload")
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.uGame.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return conn.sendError(msg.Action, "failed to create a new player")
	}

	conn.playerID = player.ID

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.uGame.GetGame(ctx, player.ID)
		if err != nil {
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
			return conn.sendError(msg.Action, "failed to get the game")
		}

		payloadResp.Game = game
	}

	log.Info("successfully connected player", "player", player.ID, "session", conn.sessionID)

	return conn.send(msg.Action, payloadResp)
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, ok := that.decodePayload(conn, msg)
	if !ok {
		return conn.sendError(msg.Action, "invalid payload")
	}

	playerID, ok := resolvePlayerID(conn, payloadReq)
	if !ok {
		return conn.sendError(msg.Action, "Player is required")
	}

	mark := board.Mark(strings.ToUpper(payloadReq.Mark))

	game, err := that.uGame.GetOrCreateGame(ctx, playerID, mark)
	if err != nil {
		log.Error("failed to create or get game", "player", playerID, "error", err)

		if errors.Is(err, apperror.ErrInvalidMark) {
			return conn.sendError(msg.Action, apperror.ErrInvalidMark.Error())
		}

		return conn.sendError(msg.Action, "failed to create a new game")
	}

	return conn.send(msg.Action, Payload{Player: humanPlayer(game, playerID), Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, ok := that.decodePayload(conn, msg)
	if !ok {
		return conn.sendError(msg.Action, "invalid payload")
	}

	playerID, ok := resolvePlayerID(conn, payloadReq)
	if !ok {
		return conn.sendError(msg.Action, "Player is required")
	}

	if payloadReq.Cell == nil {
		return conn.sendError(msg.Action, "Cell is required")
	}

	game, err := that.uGame.MakeTurn(ctx, playerID, *payloadReq.Cell)
	if err != nil && !errors.Is(err, apperror.ErrGameFinished) {
		log.Info("turn rejected", "player", playerID, "cell", *payloadReq.Cell, "error", err)
		return conn.sendError(msg.Action, turnErrorMessage(err))
	}

	// a finished game comes back with ErrGameFinished and the final board
	if game == nil {
		return conn.sendError(msg.Action, apperror.ErrGameFinished.Error())
	}

	return conn.send(msg.Action, Payload{Game: game})
}

func (that *Server) handleGameState(ctx context.Context, conn *connection, msg *Message) error {
	log := that.logger.With("method", "handleGameState")

	payloadReq, ok := that.decodePayload(conn, msg)
	if !ok {
		return conn.sendError(msg.Action, "invalid payload")
	}

	playerID, ok := resolvePlayerID(conn, payloadReq)
	if !ok {
		return conn.sendError(msg.Action, "Player is required")
	}

	game, err := that.uGame.GetGame(ctx, playerID)
	if err != nil {
		log.Info("failed to get game", "player", playerID, "error", err)

		if errors.Is(err, apperror.ErrNoActiveGame) {
			return conn.sendError(msg.Action, apperror.ErrNoActiveGame.Error())
		}

		return conn.sendError(msg.Action, "failed to get the game")
	}

	return conn.send(msg.Action, Payload{Game: game})
}

func (that *Server) decodePayload(conn *connection, msg *Message) (*Payload, bool) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, true
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		that.logger.Info("failed to unmarshal payload", "action", msg.Action, "session", conn.sessionID, "error", err)
		return nil, false
	}

	return &payload, true
}

// resolvePlayerID returns the player bound by connect. Before connect the
// payload names the player.
func resolvePlayerID(conn *connection, payload *Payload) (string, bool) {
	if conn.playerID != "" {
		return conn.playerID, true
	}

	if payload.Player != nil && payload.Player.ID != "" {
		return payload.Player.ID, true
	}

	return "", false
}

func humanPlayer(game *entity.Game, playerID string) *entity.Player {
	for _, player := range game.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

func turnErrorMessage(err error) string {
	for _, known := range []error{
		apperror.ErrNoActiveGame,
		apperror.ErrNotYourTurn,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrGameIsNotStarted,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "failed to make a turn"
}
