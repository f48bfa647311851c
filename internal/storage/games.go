package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// GameRecord is a stored game. Moves are in coordinate notation so they can
// be replayed; SAN is kept for display.
type GameRecord struct {
	ID      uint64    `json:"id"`
	White   string    `json:"white"`
	Black   string    `json:"black"`
	Started time.Time `json:"started"`
	Updated time.Time `json:"updated"`
	Moves   []string  `json:"moves"`
	SAN     []string  `json:"san,omitempty"`
	Result  string    `json:"result"`
	Status  string    `json:"status"`
}

// gameKey zero-pads the ID so key order is ID order.
func gameKey(id uint64) string {
	return fmt.Sprintf("%s%020d", gamePrefix, id)
}

// SaveGame stores rec, assigning a new ID when rec.ID is zero. Saving with an
// existing ID overwrites that game.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == 0 {
		id, err := s.nextID()
		if err != nil {
			return fmt.Errorf("allocate game id: %w", err)
		}
		rec.ID = id
	}
	rec.Updated = time.Now()

	err := s.db.Update(func(txn *badger.Txn) error {
		return putJSON(txn, gameKey(rec.ID), rec)
	})
	if err != nil {
		return fmt.Errorf("save game %d: %w", rec.ID, err)
	}
	s.log.Debug().Uint64("id", rec.ID).Int("moves", len(rec.Moves)).Str("result", rec.Result).Msg("game saved")
	return nil
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		found, err = getJSON(txn, gameKey(id), rec)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load game %d: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	return rec, nil
}

// ListGames returns up to limit stored games, newest first. A limit of zero
// or less returns all of them.
func (s *Storage) ListGames(limit int) ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts from the largest key under the prefix.
		seek := append([]byte(gamePrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			games = append(games, rec)
			if limit > 0 && len(games) == limit {
				break
			}
		}
		return nil
	})
	return games, err
}

// DeleteGame removes the game stored under id.
func (s *Storage) DeleteGame(id uint64) error {
	key := []byte(gameKey(id))
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete game %d: %w", id, err)
	}
	s.log.Debug().Uint64("id", id).Msg("game deleted")
	return nil
}

// ParseGameID parses a decimal game ID.
func ParseGameID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrGameNotFound, s)
	}
	return id, nil
}
