// Package console is a line-oriented front end for playing and inspecting
// games: moves in coordinate notation or SAN, click input, undo, perft and
// access to the saved games, preferences and statistics.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// ErrNoStorage is returned by commands that need a database when none is open.
var ErrNoStorage = errors.New("no database open")

// Config configures a Console.
type Config struct {
	// Storage is optional. Without it, persistence commands fail with ErrNoStorage.
	Storage *storage.Storage
	Logger  zerolog.Logger
	// Promotion overrides the stored promotion preference when set.
	Promotion board.PieceType
}

// Console runs commands against one game at a time.
type Console struct {
	game  *game.Game
	store *storage.Storage
	prefs *storage.UserPreferences
	log   zerolog.Logger
	// promotion, when set, wins over prefs.Promotion and is never saved.
	promotion board.PieceType

	out  io.Writer
	quit bool
}

// New creates a console with a fresh game. Preferences are read from the
// database when one is configured.
func New(cfg Config) (*Console, error) {
	c := &Console{
		store:     cfg.Storage,
		log:       cfg.Logger,
		prefs:     storage.DefaultPreferences(),
		promotion: cfg.Promotion,
		out:       io.Discard,
	}
	if c.store != nil {
		prefs, err := c.store.LoadPreferences()
		if err != nil {
			return nil, fmt.Errorf("load preferences: %w", err)
		}
		c.prefs = prefs
	}
	c.game = game.New(c.gameOptions()...)
	return c, nil
}

// gameOptions builds the options every new or loaded game gets.
func (c *Console) gameOptions() []game.Option {
	opts := []game.Option{
		game.WithLogger(c.log),
		game.WithPromotion(c.promotionPiece()),
		game.WithPlayers(c.prefs.Username, "Opponent"),
	}
	if c.store != nil {
		opts = append(opts, game.WithRecorder(&recorder{store: c.store, log: c.log}))
	}
	return opts
}

func (c *Console) promotionPiece() board.PieceType {
	if c.promotion != board.NoPieceType {
		return c.promotion
	}
	return parsePromotion(c.prefs.Promotion)
}

func parsePromotion(s string) board.PieceType {
	if s == "" {
		return board.Queen
	}
	return board.PieceTypeFromChar(s[0])
}

// Game returns the game being played.
func (c *Console) Game() *game.Game {
	return c.game
}

// Run reads commands from r and writes responses to w until the input ends,
// a quit command is read, or ctx is cancelled.
func (c *Console) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	c.out = w
	c.quit = false

	// Stops the reader goroutine once Run returns.
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	c.greet()
	for !c.quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return ctx.Err()
				}
			}
			c.Execute(line)
		}
	}
	return nil
}

func (c *Console) greet() {
	if c.store == nil {
		return
	}
	first, err := c.store.IsFirstLaunch()
	if err != nil {
		c.log.Warn().Err(err).Msg("check first launch")
		return
	}
	if !first {
		return
	}
	fmt.Fprintf(c.out, "Welcome, %s. Type help for the list of commands.\n", c.prefs.Username)
	if err := c.store.MarkFirstLaunchComplete(); err != nil {
		c.log.Warn().Err(err).Msg("mark first launch")
	}
}

// Execute runs a single command line.
func (c *Console) Execute(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "help":
		c.handleHelp()
	case "d", "board":
		c.printBoard()
	case "moves":
		err = c.handleMoves(args)
	case "click":
		err = c.handleClick(args)
	case "why":
		err = c.handleWhy(args)
	case "undo":
		err = c.handleUndo()
	case "new":
		c.game.Reset()
		fmt.Fprintln(c.out, "New game.")
	case "status":
		c.printStatus()
	case "history":
		c.printHistory()
	case "perft":
		err = c.handlePerft(args)
	case "divide":
		err = c.handleDivide(args)
	case "save":
		err = c.handleSave()
	case "load":
		err = c.handleLoad(args)
	case "games":
		err = c.handleGames(args)
	case "delete":
		err = c.handleDelete(args)
	case "backup":
		err = c.handleBackup(args)
	case "restore":
		err = c.handleRestore(args)
	case "stats":
		err = c.handleStats()
	case "size":
		err = c.handleSize()
	case "prefs":
		err = c.handlePrefs(args)
	case "quit", "exit":
		c.quit = true
	default:
		err = c.handleMove(cmd)
	}

	if err != nil {
		c.log.Debug().Err(err).Str("line", line).Msg("command failed")
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

func (c *Console) handleHelp() {
	fmt.Fprint(c.out, `Commands:
  e2e4 | e7e8n | Nf3 | O-O   play a move
  click <sq>                 select a piece, then its destination
  why <from><to>             explain why a move is not legal
  moves [sq]                 list legal moves
  d | board                  show the board
  undo | new                 take back a move, start over
  status | history           game state, moves so far
  perft <n> | divide <n>     count move paths
  save | load <id> | games [n] | delete <id>
  backup <path> | restore <path> | stats | size
  prefs [key value]          show or change preferences
  quit
`)
}
