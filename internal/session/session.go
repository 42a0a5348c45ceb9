// Package session runs an interactive text game between a human and the
// perfect-play engine.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
)

const (
	prompt    = "Enter your move (row and column): "
	separator = "-----"

	msgInvalidInput = "Invalid input. Please enter row and column as two numbers separated by a space."
	msgOutOfRange   = "Invalid move. Please enter row and column values between 0 and 2."
	msgOccupied     = "Invalid move. The cell is already occupied. Try again."
)

type searcher interface {
	BestMove(b *board.Board, side board.Mark) (board.Move, bool)
}

// inputLine is one line read from the session input. err is set on the last
// value before the channel closes when reading failed.
type inputLine struct {
	text string
	err  error
}

// Result is the outcome of a finished session. Winner is board.Empty on a draw.
type Result struct {
	Winner board.Mark
	Board  board.Board
}

type Session struct {
	logger   *slog.Logger
	searcher searcher

	in  *bufio.Scanner
	out io.Writer

	human    board.Mark
	computer board.Mark
}

func New(logger *slog.Logger, searcher searcher, in io.Reader, out io.Writer, human board.Mark) *Session {
	return &Session{
		logger:   logger.With("component", "session"),
		searcher: searcher,
		in:       bufio.NewScanner(in),
		out:      out,
		human:    human,
		computer: human.Opponent(),
	}
}

// Run plays one game. X always moves first. Canceling ctx stops the game even
// while it waits for the human's move.
func (that *Session) Run(ctx context.Context) (*Result, error) {
	log := that.logger.With("method", "Run", "human", that.human)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("session interrupted: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := that.readLines(ctx)

	b := board.New()
	current := board.X

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("session interrupted: %w", err)
		}

		that.render(&b)

		var move board.Move
		if current == that.human {
			var err error
			if move, err = that.readMove(ctx, lines, &b); err != nil {
				if errors.Is(err, apperror.ErrInputClosed) || ctx.Err() != nil {
					return nil, err
				}

				that.printf("%s\n", rejectionMessage(err))
				continue
			}
		} else {
			var ok bool
			if move, ok = that.searcher.BestMove(&b, that.computer); !ok {
				return nil, apperror.ErrNoAvailableMoves
			}
			that.printf("Computer plays %d %d\n", move.Row, move.Col)
		}

		b.Place(move, current)
		log.Debug("move applied", "side", current, "row", move.Row, "col", move.Col)

		if b.HasWon(current) {
			that.render(&b)
			that.printf("Player %s wins!\n", current)
			log.Info("game finished", "winner", current)

			return &Result{Winner: current, Board: b}, nil
		}

		if b.IsDraw() {
			that.render(&b)
			that.printf("It's a draw!\n")
			log.Info("game finished", "winner", "draw")

			return &Result{Winner: board.Empty, Board: b}, nil
		}

		current = current.Opponent()
	}
}

// readLines scans the input on its own goroutine so a pending read never
// blocks cancellation. The goroutine stays parked in Scan until the input
// yields a line or ends.
func (that *Session) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		for that.in.Scan() {
			select {
			case lines <- inputLine{text: that.in.Text()}:
			case <-ctx.Done():
				return
			}
		}

		if err := that.in.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return lines
}

// readMove prompts for one line and validates it against b.
func (that *Session) readMove(ctx context.Context, lines <-chan inputLine, b *board.Board) (board.Move, error) {
	that.printf("%s", prompt)

	select {
	case <-ctx.Done():
		return board.Move{}, fmt.Errorf("session interrupted: %w", ctx.Err())
	case line, ok := <-lines:
		if !ok {
			return board.Move{}, apperror.ErrInputClosed
		}

		if line.err != nil {
			return board.Move{}, fmt.Errorf("%w: %w", apperror.ErrInputClosed, line.err)
		}

		// a line racing with cancellation is dropped
		if err := ctx.Err(); err != nil {
			return board.Move{}, fmt.Errorf("session interrupted: %w", err)
		}

		return ParseMove(line.text, b)
	}
}

// rejectionMessage tells the human why a move was refused.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return msgOccupied
	case errors.Is(err, apperror.ErrInvalidCell):
		return msgOutOfRange
	default:
		return msgInvalidInput
	}
}

// ParseMove reads "row column" and checks the cell is on the board and empty.
func ParseMove(line string, b *board.Board) (board.Move, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return board.Move{}, fmt.Errorf("%w: expected row and column separated by a space", apperror.ErrInvalidInput)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return board.Move{}, fmt.Errorf("%w: row %q is not a number", apperror.ErrInvalidInput, fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return board.Move{}, fmt.Errorf("%w: column %q is not a number", apperror.ErrInvalidInput, fields[1])
	}

	move := board.Move{Row: row, Col: col}
	if !move.InBounds() {
		return board.Move{}, fmt.Errorf("%w: row and column must be between 0 and %d", apperror.ErrInvalidCell, board.Size-1)
	}

	if !b.IsEmpty(move) {
		return board.Move{}, apperror.ErrCellOccupied
	}

	return move, nil
}

func (that *Session) render(b *board.Board) {
	that.printf("%s", Render(b))
}

// Render prints each row with cells joined by "|" and a separator line after it.
func Render(b *board.Board) string {
	var sb strings.Builder

	for row := 0; row < board.Size; row++ {
		cells := make([]string, board.Size)
		for col := 0; col < board.Size; col++ {
			cells[col] = cellString(b[row][col])
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")
		sb.WriteString(separator)
		sb.WriteString("\n")
	}

	return sb.String()
}

func cellString(mark board.Mark) string {
	if mark == board.Empty {
		return " "
	}

	return string(mark)
}

func (that *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
