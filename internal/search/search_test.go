package search

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
)

const (
	x = board.X
	o = board.O
	e = board.Empty
)

func TestEvaluate_TerminalScores(t *testing.T) {
	t.Run("Maximizer has a line", func(t *testing.T) {
		// Given: a board where X owns the top row
		b := board.Board{
			{x, x, x},
			{o, o, e},
			{e, e, e},
		}

		// When: evaluating for X at depth 2
		score := Evaluate(&b, x, 2, false, minScore, maxScore)

		// Then: the score is 10 minus the depth
		assert.Equal(t, WinScore-2, score)
		assert.Positive(t, score)
	})

	t.Run("Minimizer has a line", func(t *testing.T) {
		// Given: a board where O owns the anti-diagonal
		b := board.Board{
			{x, x, o},
			{x, o, e},
			{o, e, e},
		}

		// When: evaluating for X at depth 3
		score := Evaluate(&b, x, 3, true, minScore, maxScore)

		// Then: the score is the depth minus 10
		assert.Equal(t, 3-WinScore, score)
		assert.Negative(t, score)
	})

	t.Run("Full board without a line", func(t *testing.T) {
		b := board.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		assert.Zero(t, Evaluate(&b, o, 4, true, minScore, maxScore))
	})

	t.Run("Win that fills the board is a win", func(t *testing.T) {
		// Given: a full board that also holds a line for X
		b := board.Board{
			{x, x, x},
			{o, o, x},
			{x, o, o},
		}

		// Then: the win is scored, not the draw
		assert.Equal(t, WinScore-8, Evaluate(&b, x, 8, false, minScore, maxScore))
		assert.Equal(t, 8-WinScore, Evaluate(&b, o, 8, true, minScore, maxScore))
	})

	t.Run("Win outranks draw and loss at equal or greater depth", func(t *testing.T) {
		won := board.Board{{x, x, x}, {o, o, e}, {e, e, e}}
		drawn := board.Board{{x, o, x}, {x, o, o}, {o, x, x}}
		lost := board.Board{{o, o, o}, {x, x, e}, {x, e, e}}

		for depth := 0; depth <= 8; depth++ {
			win := Evaluate(&won, x, depth, false, minScore, maxScore)
			for other := depth; other <= 8; other++ {
				assert.Greater(t, win, Evaluate(&drawn, x, other, false, minScore, maxScore))
				assert.Greater(t, win, Evaluate(&lost, x, other, false, minScore, maxScore))
			}
		}
	})
}

func TestEvaluate_RestoresBoard(t *testing.T) {
	// Given: a position in the middle of a game
	b := board.Board{
		{x, e, e},
		{e, o, e},
		{e, e, x},
	}
	before := b

	// When: evaluating it twice with the same arguments
	first := Evaluate(&b, o, 0, true, minScore, maxScore)
	require.Equal(t, before, b)
	second := Evaluate(&b, o, 0, true, minScore, maxScore)

	// Then: the results match and the board is untouched
	assert.Equal(t, first, second)
	assert.Equal(t, before, b)
}

func TestFindBestMove(t *testing.T) {
	t.Run("Empty board opens in the first corner", func(t *testing.T) {
		for _, side := range []board.Mark{x, o} {
			b := board.New()

			first, ok := FindBestMove(&b, side)
			require.True(t, ok)
			second, ok := FindBestMove(&b, side)
			require.True(t, ok)

			assert.Equal(t, board.Move{Row: 0, Col: 0}, first)
			assert.Equal(t, first, second)
			assert.Equal(t, board.New(), b)
		}
	})

	t.Run("Answers a center opening with a corner", func(t *testing.T) {
		// Given: X took the center
		b := board.New()
		b.Place(board.Move{Row: 1, Col: 1}, x)

		// When: O looks for the best reply
		move, ok := FindBestMove(&b, o)

		// Then: O takes the first corner
		require.True(t, ok)
		assert.Equal(t, board.Move{Row: 0, Col: 0}, move)

		// And: the game draws under best play from there
		b.Place(move, o)
		assert.Equal(t, board.Empty, playOut(&b, x))
	})

	t.Run("Blocks an immediate threat", func(t *testing.T) {
		// Given: X threatens the top row
		b := board.Board{
			{x, x, e},
			{e, o, e},
			{e, e, e},
		}

		// When: O is to move
		move, ok := FindBestMove(&b, o)

		// Then: O blocks at (0,2)
		require.True(t, ok)
		assert.Equal(t, board.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Prefers the faster win", func(t *testing.T) {
		// Given: O can win now at (2,2) or force a slower win from (1,0) or (1,2)
		b := board.Board{
			{o, x, x},
			{e, o, e},
			{x, e, e},
		}

		// When: scoring and picking
		scored := Analyze(&b, o)
		move, ok := FindBestMove(&b, o)

		// Then: the immediate win is chosen over the earlier scan-order move
		require.True(t, ok)
		assert.Equal(t, board.Move{Row: 2, Col: 2}, move)
		assert.Equal(t, []ScoredMove{
			{Move: board.Move{Row: 1, Col: 0}, Score: WinScore - 2},
			{Move: board.Move{Row: 1, Col: 2}, Score: WinScore - 2},
			{Move: board.Move{Row: 2, Col: 1}, Score: 0},
			{Move: board.Move{Row: 2, Col: 2}, Score: WinScore},
		}, scored)
	})

	t.Run("Last cell fills the board into a draw", func(t *testing.T) {
		// Given: one empty cell and no line possible
		b := board.Board{
			{x, o, x},
			{x, o, o},
			{o, x, e},
		}

		// When: X plays the engine's move
		move, ok := FindBestMove(&b, x)
		require.True(t, ok)
		require.Equal(t, board.Move{Row: 2, Col: 2}, move)
		b.Place(move, x)

		// Then: the board is a draw and nobody has won
		assert.False(t, b.HasWon(x))
		assert.False(t, b.HasWon(o))
		assert.True(t, b.IsDraw())
	})

	t.Run("No legal moves", func(t *testing.T) {
		b := board.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		_, ok := FindBestMove(&b, o)
		assert.False(t, ok)
	})
}

func TestAnalyze_CenterOpening(t *testing.T) {
	// Given: X took the center
	b := board.New()
	b.Place(board.Move{Row: 1, Col: 1}, x)

	// When: scoring every reply for O
	scored := Analyze(&b, o)

	// Then: corners hold the draw and edges lose
	require.Len(t, scored, 8)
	for _, sm := range scored {
		isCorner := sm.Move.Row != 1 && sm.Move.Col != 1
		if isCorner {
			assert.Zero(t, sm.Score, "move %+v", sm.Move)
		} else {
			assert.Negative(t, sm.Score, "move %+v", sm.Move)
		}
	}
}

func TestFindBestMove_Optimal(t *testing.T) {
	solver := newSolver()
	visited := make(map[position]bool)
	checked := 0

	var walk func(b board.Board, toMove board.Mark)
	walk = func(b board.Board, toMove board.Mark) {
		key := position{b, toMove}
		if visited[key] || b.IsTerminal() {
			return
		}
		visited[key] = true

		before := b
		move, ok := FindBestMove(&b, toMove)
		require.True(t, ok)
		require.Equal(t, before, b, "board changed by search")

		after := b
		after.Place(move, toMove)
		assert.Equal(t, solver.value(b, toMove), -solver.value(after, toMove.Opponent()),
			"suboptimal move %+v for %s on %v", move, toMove, b)
		checked++

		for _, next := range b.LegalMoves() {
			child := b
			child.Place(next, toMove)
			walk(child, toMove.Opponent())
		}
	}

	walk(board.New(), x)

	assert.Equal(t, 4520, checked)
}

func TestFindBestMove_NeverLoses(t *testing.T) {
	for _, engine := range []board.Mark{x, o} {
		games := 0

		var play func(b board.Board, toMove board.Mark)
		play = func(b board.Board, toMove board.Mark) {
			if winner := b.Winner(); winner != board.Empty || b.IsDraw() {
				assert.NotEqual(t, engine.Opponent(), winner, "engine %s lost: %v", engine, b)
				games++
				return
			}

			if toMove == engine {
				move, ok := FindBestMove(&b, engine)
				require.True(t, ok)
				b.Place(move, engine)
				play(b, toMove.Opponent())
				return
			}

			for _, move := range b.LegalMoves() {
				child := b
				child.Place(move, toMove)
				play(child, toMove.Opponent())
			}
		}

		play(board.New(), x)

		assert.Positive(t, games)
	}
}

func TestFindBestMove_SelfPlayDraws(t *testing.T) {
	b := board.New()
	assert.Equal(t, board.Empty, playOut(&b, x))
}

func TestSearcher_BestMove(t *testing.T) {
	searcher := New(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})))

	t.Run("Matches FindBestMove", func(t *testing.T) {
		b := board.Board{
			{x, x, e},
			{e, o, e},
			{e, e, e},
		}

		move, ok := searcher.BestMove(&b, o)
		require.True(t, ok)
		expected, _ := FindBestMove(&b, o)
		assert.Equal(t, expected, move)
	})

	t.Run("Full board", func(t *testing.T) {
		b := board.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		_, ok := searcher.BestMove(&b, x)
		assert.False(t, ok)
	})
}

// playOut lets the engine play both sides and returns the winner.
func playOut(b *board.Board, toMove board.Mark) board.Mark {
	for !b.IsTerminal() {
		move, _ := FindBestMove(b, toMove)
		b.Place(move, toMove)
		toMove = toMove.Opponent()
	}

	return b.Winner()
}

type position struct {
	board  board.Board
	toMove board.Mark
}

// solver is a plain memoized negamax used as the reference: +1 win, 0 draw,
// -1 loss for the side to move.
type solver struct {
	memo map[position]int
}

func newSolver() *solver {
	return &solver{memo: make(map[position]int)}
}

func (that *solver) value(b board.Board, toMove board.Mark) int {
	key := position{b, toMove}
	if v, ok := that.memo[key]; ok {
		return v
	}

	var v int
	switch {
	case b.HasWon(toMove.Opponent()):
		v = -1
	case b.HasWon(toMove):
		v = 1
	case b.IsDraw():
		v = 0
	default:
		v = -1
		for _, move := range b.LegalMoves() {
			child := b
			child.Place(move, toMove)
			v = max(v, -that.value(child, toMove.Opponent()))
		}
	}

	that.memo[key] = v

	return v
}
