package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/board"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/logger"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
	"github.com/rocketscienceinc/tictactoe-engine/internal/session"
)

// main - plays one game against the computer in the terminal.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to config.yml")
	humanMark := flag.String("human", "", "mark played by the human: X or O")
	flag.Parse()

	conf := config.MustLoad(config.ResolvePath(*configPath))
	if *humanMark != "" {
		conf.Session.HumanMark = *humanMark
	}

	// the board goes to stdout, so logs go to stderr
	log := logger.New(os.Stderr, conf.LogLevel)

	human, err := conf.Session.Mark()
	if err != nil {
		panic(fmt.Errorf("invalid human mark: %w", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = run(ctx, log, human); err != nil {
		if errors.Is(err, apperror.ErrInputClosed) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "game aborted")
			os.Exit(1)
		}
		panic(fmt.Errorf("session failed: %w", err))
	}
}

func run(ctx context.Context, log *slog.Logger, human board.Mark) error {
	s := session.New(log, search.New(log), os.Stdin, os.Stdout, human)

	if _, err := s.Run(ctx); err != nil {
		return fmt.Errorf("run session: %w", err)
	}

	return nil
}
