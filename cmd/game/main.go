package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/rocks/internal/config"
	"github.com/tomz197/rocks/internal/loop"
	"github.com/tomz197/rocks/internal/sim"
)

func main() {
	logger := config.NewLogger("rocks")
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", "err", err)
	}

	params, err := sim.ParamsFromEnv()
	if err != nil {
		logger.Fatal("invalid game parameters", "err", err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Params: params,
		Seed:   config.GetEnvInt64("ROCKS_SEED", 0),
		Logger: logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		logger.Fatal("game error", "err", err)
	}
}
