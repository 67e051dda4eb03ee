package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// FileStore persists each collection as one JSON file under Dir.
// A per-collection mutex serializes load-modify-save cycles; writes go
// through a temp file and rename so a crash never leaves a half-written
// collection behind.
type FileStore struct {
	dir    string
	strict bool
	log    zerolog.Logger

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewFileStore creates a file-backed store rooted at dir. When strict is
// false, read and parse failures are logged and downgraded to an empty
// collection; when true they are returned to the caller.
func NewFileStore(dir string, strict bool, log zerolog.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		strict: strict,
		log:    log,
		locks:  map[string]*sync.Mutex{},
	}
}

func (s *FileStore) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads the named collection into out (a pointer to a slice).
func (s *FileStore) Load(ctx context.Context, collection string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			// A collection that was never written is legitimately empty.
			return json.Unmarshal([]byte("[]"), out)
		}
		if s.strict {
			return fmt.Errorf("store: read %s: %w", collection, err)
		}
		s.log.Warn().Err(err).Str("collection", collection).Msg("read failed, treating collection as empty")
		return json.Unmarshal([]byte("[]"), out)
	}

	if err := json.Unmarshal(data, out); err != nil {
		if s.strict {
			return fmt.Errorf("store: parse %s: %w", collection, err)
		}
		s.log.Warn().Err(err).Str("collection", collection).Msg("parse failed, treating collection as empty")
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

// Save replaces the named collection with records (a slice).
func (s *FileStore) Save(ctx context.Context, collection string, records interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", collection, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: mkdir %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("store: temp file for %s: %w", collection, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: close %s: %w", collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replace %s: %w", collection, err)
	}
	return nil
}
