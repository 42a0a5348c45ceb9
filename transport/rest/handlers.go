package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

const maxBodySize = 1 << 12

var (
	ErrTerminalBoard   = errors.New("board is already won or full")
	ErrImpossibleBoard = errors.New("board cannot arise from alternating play")
)

type engine interface {
	BestMove(b *board.Board, side board.Mark) (board.Move, bool)
}

type moveRequest struct {
	Board board.Board `json:"board"`
	Mark  board.Mark  `json:"mark"`
}

type moveResponse struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Cell int `json:"cell"`
}

type analysisResponse struct {
	Mark  board.Mark          `json:"mark"`
	Best  moveResponse        `json:"best"`
	Moves []search.ScoredMove `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	engine engine
}

func newHandlers(logger *slog.Logger, engine engine) *handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		engine: engine,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) bestMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "bestMove")

	req, status, err := decodeMoveRequest(w, r)
	if err != nil {
		log.Info("rejected request", "error", err)
		that.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	move, _ := that.engine.BestMove(&req.Board, req.Mark)

	that.writeJSON(w, http.StatusOK, toMoveResponse(move))
}

func (that *handlers) analysis(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "analysis")

	req, status, err := decodeMoveRequest(w, r)
	if err != nil {
		log.Info("rejected request", "error", err)
		that.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	best, _ := that.engine.BestMove(&req.Board, req.Mark)

	that.writeJSON(w, http.StatusOK, analysisResponse{
		Mark:  req.Mark,
		Best:  toMoveResponse(best),
		Moves: search.Analyze(&req.Board, req.Mark),
	})
}

// decodeMoveRequest returns the HTTP status to answer with when the request
// cannot be searched.
func decodeMoveRequest(w http.ResponseWriter, r *http.Request) (*moveRequest, int, error) {
	var req moveRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to decode request: %w", err)
	}

	if !req.Mark.IsSide() {
		return nil, http.StatusBadRequest, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, req.Mark)
	}

	for _, row := range req.Board {
		for _, cell := range row {
			if cell != board.Empty && !cell.IsSide() {
				return nil, http.StatusBadRequest, fmt.Errorf("%w: cell %q", apperror.ErrInvalidMark, cell)
			}
		}
	}

	// X opens, so X is level with O or one ahead
	if diff := req.Board.Count(board.X) - req.Board.Count(board.O); diff < 0 || diff > 1 {
		return nil, http.StatusBadRequest, ErrImpossibleBoard
	}

	if req.Board.IsTerminal() {
		return nil, http.StatusConflict, ErrTerminalBoard
	}

	return &req, http.StatusOK, nil
}

func toMoveResponse(move board.Move) moveResponse {
	return moveResponse{
		Row:  move.Row,
		Col:  move.Col,
		Cell: move.Index(),
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
