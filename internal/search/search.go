// Package search picks moves by exhaustive minimax with alpha-beta pruning.
//
// Scores are relative to a maximizing side: a win for it at depth d scores
// WinScore-d, a loss scores d-WinScore and a draw scores 0, so faster wins and
// slower losses are preferred. The board passed in is used as scratch space;
// every speculative mark is cleared before the frame that placed it returns.
package search

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
)

// WinScore is the value of a win on the very next ply.
const WinScore = 10

const (
	minScore = math.MinInt
	maxScore = math.MaxInt
)

// ScoredMove is a root move together with its minimax value.
type ScoredMove struct {
	Move  board.Move `json:"move"`
	Score int        `json:"score"`
}

// Stats collects counters for a single search.
type Stats struct {
	Nodes int
}

// Evaluate returns the minimax value of b for maximizer. depth is the number
// of plies made since the search root, maximizingTurn tells whose move it is.
func Evaluate(b *board.Board, maximizer board.Mark, depth int, maximizingTurn bool, alpha, beta int) int {
	return evaluate(b, maximizer, depth, maximizingTurn, alpha, beta, nil)
}

func evaluate(b *board.Board, maximizer board.Mark, depth int, maximizingTurn bool, alpha, beta int, stats *Stats) int {
	if stats != nil {
		stats.Nodes++
	}

	minimizer := maximizer.Opponent()

	// a move that wins and fills the board at once is a win, not a draw
	switch {
	case b.HasWon(maximizer):
		return WinScore - depth
	case b.HasWon(minimizer):
		return depth - WinScore
	case b.IsDraw():
		return 0
	}

	if maximizingTurn {
		best := minScore
		for _, move := range b.LegalMoves() {
			b.Place(move, maximizer)
			score := evaluate(b, maximizer, depth+1, false, alpha, beta, stats)
			b.Clear(move)

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}

		return best
	}

	worst := maxScore
	for _, move := range b.LegalMoves() {
		b.Place(move, minimizer)
		score := evaluate(b, maximizer, depth+1, true, alpha, beta, stats)
		b.Clear(move)

		worst = min(worst, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}

	return worst
}

// FindBestMove returns the optimal move for side. Among equally good moves the
// first one in row-major order wins. ok is false when the board has no empty
// cell.
func FindBestMove(b *board.Board, side board.Mark) (board.Move, bool) {
	move, _, ok := bestMove(b, side, nil)
	return move, ok
}

func bestMove(b *board.Board, side board.Mark, stats *Stats) (board.Move, int, bool) {
	var (
		best      board.Move
		bestScore = minScore
		found     bool
	)

	for _, move := range b.LegalMoves() {
		b.Place(move, side)
		score := evaluate(b, side, 0, false, minScore, maxScore, stats)
		b.Clear(move)

		if score > bestScore {
			best, bestScore, found = move, score, true
		}
	}

	return best, bestScore, found
}

// Analyze scores every legal move for side, in row-major order.
func Analyze(b *board.Board, side board.Mark) []ScoredMove {
	moves := b.LegalMoves()
	scored := make([]ScoredMove, 0, len(moves))

	for _, move := range moves {
		b.Place(move, side)
		score := evaluate(b, side, 0, false, minScore, maxScore, nil)
		b.Clear(move)

		scored = append(scored, ScoredMove{Move: move, Score: score})
	}

	return scored
}
