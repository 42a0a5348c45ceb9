package search

import (
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
)

// Searcher wraps FindBestMove with decision logging.
type Searcher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Searcher {
	return &Searcher{
		logger: logger.With("component", "search"),
	}
}

// BestMove behaves like FindBestMove and logs the chosen move, its score and
// the number of visited nodes.
func (that *Searcher) BestMove(b *board.Board, side board.Mark) (board.Move, bool) {
	var stats Stats

	move, score, ok := bestMove(b, side, &stats)
	if !ok {
		that.logger.Debug("no legal moves", "side", side)
		return move, false
	}

	that.logger.Debug("best move found",
		"side", side,
		"row", move.Row,
		"col", move.Col,
		"score", score,
		"nodes", stats.Nodes,
	)

	return move, true
}
