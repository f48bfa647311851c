// Command chessplay plays chess at the terminal, two players at one keyboard,
// and keeps finished games, preferences and statistics in a local database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/console"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	dbDir      = flag.String("db", "", "database directory (default: the platform data directory)")
	inMemory   = flag.Bool("memory", false, "keep the database in memory only")
	logLevel   = flag.String("log-level", "warn", "log level: trace, debug, info, warn, error")
	cpuprofile = flag.String("cpuprofile", "", "write a CPU profile to this directory")
	promotion  = flag.String("promotion", "", "default promotion piece: q, r, b or n (default: stored preference)")
)

func main() {
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level: %v\n", err)
		os.Exit(2)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	promo := board.NoPieceType
	if *promotion != "" {
		promo = board.PieceTypeFromChar((*promotion)[0])
		switch promo {
		case board.Knight, board.Bishop, board.Rook, board.Queen:
		default:
			fmt.Fprintf(os.Stderr, "bad -promotion %q: want q, r, b or n\n", *promotion)
			os.Exit(2)
		}
	}

	if err := run(log, promo); err != nil {
		log.Error().Err(err).Msg("chessplay failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, promo board.PieceType) error {
	if *cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuprofile), profile.NoShutdownHook).Stop()
		log.Info().Str("dir", *cpuprofile).Msg("CPU profiling enabled")
	}

	store, err := storage.Open(storage.Options{
		Dir:      *dbDir,
		InMemory: *inMemory,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	c, err := console.New(console.Config{
		Storage:   store,
		Logger:    log,
		Promotion: promo,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = c.Run(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
