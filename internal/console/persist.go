package console

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

// recorder stores finished games and counts them in the statistics. The
// user plays white; black is the opponent at the same keyboard.
type recorder struct {
	store *storage.Storage
	log   zerolog.Logger
}

func (r *recorder) GameFinished(rec game.Record) (uint64, error) {
	stored := toStored(rec)
	if err := r.store.SaveGame(stored); err != nil {
		return 0, err
	}

	result := storage.GameResult{
		Won:      rec.Result == game.WhiteWon,
		Draw:     rec.Result == game.Draw,
		Color:    "white",
		Reason:   rec.Status.String(),
		Duration: time.Since(rec.Started),
	}
	if _, err := r.store.RecordResult(result); err != nil {
		return stored.ID, err
	}

	r.log.Info().Uint64("id", stored.ID).Str("result", string(rec.Result)).Msg("game recorded")
	return stored.ID, nil
}

func toStored(rec game.Record) *storage.GameRecord {
	return &storage.GameRecord{
		ID:      rec.ID,
		White:   rec.White,
		Black:   rec.Black,
		Started: rec.Started,
		Moves:   rec.Moves,
		SAN:     rec.SAN,
		Result:  string(rec.Result),
		Status:  rec.Status.String(),
	}
}

func fromStored(rec *storage.GameRecord) game.Record {
	return game.Record{
		ID:      rec.ID,
		White:   rec.White,
		Black:   rec.Black,
		Started: rec.Started,
		Moves:   rec.Moves,
		SAN:     rec.SAN,
		Result:  game.Outcome(rec.Result),
	}
}

func (c *Console) needStorage() error {
	if c.store == nil {
		return ErrNoStorage
	}
	return nil
}

// parseID reads the game ID argument of a command.
func parseID(args []string, usage string) (uint64, error) {
	if len(args) != 1 {
		return 0, errors.New(usage)
	}
	return storage.ParseGameID(args[0])
}

func (c *Console) handleSave() error {
	if err := c.needStorage(); err != nil {
		return err
	}
	rec := toStored(c.game.Record())
	if err := c.store.SaveGame(rec); err != nil {
		return err
	}
	c.game.SetID(rec.ID)
	fmt.Fprintf(c.out, "Game saved as %d.\n", rec.ID)
	return nil
}

func (c *Console) handleLoad(args []string) error {
	if err := c.needStorage(); err != nil {
		return err
	}
	id, err := parseID(args, "usage: load <id>")
	if err != nil {
		return err
	}
	rec, err := c.store.LoadGame(id)
	if err != nil {
		return err
	}
	g, err := game.Replay(fromStored(rec), c.gameOptions()...)
	if err != nil {
		return err
	}
	c.game = g
	fmt.Fprintf(c.out, "Loaded game %d: %s vs %s, %d moves.\n", id, rec.White, rec.Black, len(rec.Moves))
	c.printStatus()
	return nil
}

func (c *Console) handleGames(args []string) error {
	if err := c.needStorage(); err != nil {
		return err
	}
	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad limit %q", args[0])
		}
		limit = n
	}

	games, err := c.store.ListGames(limit)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "No saved games.")
		return nil
	}
	for _, rec := range games {
		fmt.Fprintf(c.out, "%4d  %s  %s vs %s  %s  %d moves\n",
			rec.ID, rec.Updated.Format("2006-01-02 15:04"), rec.White, rec.Black, rec.Result, len(rec.Moves))
	}
	return nil
}

func (c *Console) handleDelete(args []string) error {
	if err := c.needStorage(); err != nil {
		return err
	}
	id, err := parseID(args, "usage: delete <id>")
	if err != nil {
		return err
	}
	if err := c.store.DeleteGame(id); err != nil {
		return err
	}
	if c.game.ID() == id {
		c.game.SetID(0)
	}
	fmt.Fprintf(c.out, "Game %d deleted.\n", id)
	return nil
}

func (c *Console) handleBackup(args []string) error {
	if err := c.needStorage(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: backup <path>")
	}
	size, err := c.store.Backup(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Backup written to %s (%s).\n", args[0], size)
	return nil
}

func (c *Console) handleRestore(args []string) error {
	if err := c.needStorage(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: restore <path>")
	}
	if err := c.store.Restore(args[0]); err != nil {
		return err
	}
	prefs, err := c.store.LoadPreferences()
	if err != nil {
		return err
	}
	c.prefs = prefs
	fmt.Fprintf(c.out, "Restored from %s.\n", args[0])
	return nil
}

func (c *Console) handleStats() error {
	if err := c.needStorage(); err != nil {
		return err
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, stats)
	return nil
}

func (c *Console) handleSize() error {
	if err := c.needStorage(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Database size: %s\n", c.store.Size())
	return nil
}

// handlePrefs shows the preferences, or sets one and saves them. A new
// promotion piece applies to the current game at once.
func (c *Console) handlePrefs(args []string) error {
	switch len(args) {
	case 0:
		fmt.Fprintln(c.out, c.prefs)
		return nil
	case 2:
	default:
		return errors.New("usage: prefs [key value]")
	}

	if err := c.prefs.Set(args[0], args[1]); err != nil {
		return err
	}
	if args[0] == "promotion" {
		c.promotion = board.NoPieceType
		c.game.SetPromotion(c.promotionPiece())
	}
	if c.store != nil {
		if err := c.store.SavePreferences(c.prefs); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "%s set to %s\n", args[0], args[1])
	return nil
}
