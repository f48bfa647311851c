package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/dsnet/compress/bzip2"
	"github.com/inhies/go-bytesize"
	"github.com/klauspost/compress/zstd"
)

// Backup writes a full dump of the database to path. The file is compressed
// according to its extension: .zst for zstd, .bz2 for bzip2, anything else
// is written raw. It returns the size of the file written.
func (s *Storage) Backup(path string) (bytesize.ByteSize, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	w, err := compressWriter(path, file)
	if err != nil {
		file.Close()
		return 0, err
	}
	if _, err := s.db.Backup(w, 0); err != nil {
		w.Close()
		file.Close()
		return 0, fmt.Errorf("backup: %w", err)
	}
	if err := w.Close(); err != nil {
		file.Close()
		return 0, fmt.Errorf("backup: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return 0, err
	}
	size := bytesize.ByteSize(stat.Size())
	if err := file.Close(); err != nil {
		return 0, err
	}

	s.log.Info().Str("path", path).Str("size", size.String()).Msg("backup written")
	return size, nil
}

// Restore loads a dump written by Backup into the database. Keys present in
// the dump overwrite existing ones; other keys are kept. Game IDs handed out
// afterwards are above every stored game.
func (s *Storage) Restore(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	r, err := decompressReader(path, file)
	if err != nil {
		return err
	}
	defer r.Close()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seq.Release(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	s.seq = nil
	loadErr := s.db.Load(r, 256)

	if err := s.acquireSequence(); err != nil {
		return errors.Join(loadErr, err)
	}
	if loadErr != nil {
		return fmt.Errorf("restore: %w", loadErr)
	}
	if err := s.skipStoredIDs(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	s.log.Info().Str("path", path).Msg("backup restored")
	return nil
}

// skipStoredIDs advances the sequence past the largest stored game ID.
// Callers hold s.mu.
func (s *Storage) skipStoredIDs() error {
	var last uint64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.PrefetchValues = false
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(append([]byte(gamePrefix), 0xFF))
		if !it.ValidForPrefix(opts.Prefix) {
			return nil
		}
		key := it.Item().Key()
		id, err := strconv.ParseUint(string(key[len(gamePrefix):]), 10, 64)
		if err != nil {
			return fmt.Errorf("bad game key %q", key)
		}
		last = id
		return nil
	})
	if err != nil {
		return err
	}

	for {
		id, err := s.seq.Next()
		if err != nil {
			return err
		}
		if id >= last {
			return nil
		}
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w in the compressor matching the file extension.
func compressWriter(path string, w io.Writer) (io.WriteCloser, error) {
	switch filepath.Ext(path) {
	case ".zst":
		return zstd.NewWriter(w)
	case ".bz2":
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	default:
		return nopWriteCloser{w}, nil
	}
}

// decompressReader wraps r in the decompressor matching the file extension.
func decompressReader(path string, r io.Reader) (io.ReadCloser, error) {
	switch filepath.Ext(path) {
	case ".zst":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case ".bz2":
		return bzip2.NewReader(r, nil)
	default:
		return io.NopCloser(r), nil
	}
}
