package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "seq/game"
	gamePrefix     = "game/"
)

// ErrGameNotFound is returned when no game is stored under the requested ID.
var ErrGameNotFound = errors.New("game not found")

// Options configures Open.
type Options struct {
	// Dir holds the database files. Empty means DatabaseDir().
	Dir string
	// InMemory keeps everything in memory; Dir is ignored.
	InMemory bool
	Logger   zerolog.Logger
}

// Storage wraps BadgerDB for persistent storage. It is safe for concurrent use.
type Storage struct {
	db  *badger.DB
	log zerolog.Logger

	mu  sync.Mutex // guards seq
	seq *badger.Sequence
}

// Open opens or creates the database.
func Open(o Options) (*Storage, error) {
	var opts badger.Options
	if o.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		dir := o.Dir
		if dir == "" {
			var err error
			if dir, err = DatabaseDir(); err != nil {
				return nil, err
			}
		}
		opts = badger.DefaultOptions(dir)
	}
	opts.Logger = badgerLogger{o.Logger.With().Str("component", "badger").Logger()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Storage{db: db, log: o.Logger}
	if err := s.acquireSequence(); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug().Str("dir", opts.Dir).Bool("in_memory", o.InMemory).Msg("storage opened")
	return s, nil
}

func (s *Storage) acquireSequence() error {
	seq, err := s.db.GetSequence([]byte(keyGameSeq), 16)
	if err != nil {
		return fmt.Errorf("game id sequence: %w", err)
	}
	s.seq = seq
	return nil
}

// Close releases the ID sequence and closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
		s.seq = nil
	}
	errs = append(errs, s.db.Close())
	s.db = nil
	return errors.Join(errs...)
}

// nextID returns a fresh game ID. IDs start at 1.
func (s *Storage) nextID() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id, err := s.seq.Next()
		if err != nil {
			return 0, err
		}
		if id != 0 {
			return id, nil
		}
	}
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// Size reports the on-disk size of the LSM tree and value log.
func (s *Storage) Size() bytesize.ByteSize {
	lsm, vlog := s.db.Size()
	return bytesize.ByteSize(lsm + vlog)
}

// putJSON stores v under key.
func putJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// getJSON decodes the value under key into v. A missing key leaves v
// untouched and reports false.
func getJSON(txn *badger.Txn, key string, v any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// badgerLogger routes badger's log output into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
