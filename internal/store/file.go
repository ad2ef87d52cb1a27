package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FileStore keeps every key in a single JSON object on disk, the way a
// browser keeps local storage per origin. Writes replace the file atomically.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a store backed by the file at path.
// The parent directory is created when missing; the file itself is created on first write.
func NewFileStore(path string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	logger = logger.With().Str("store", "file").Str("path", path).Logger()
	logger.Info().Msg("file store opened")

	return &FileStore{
		path:   path,
		logger: logger,
	}, nil
}

// Get returns the value under key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, err
	}

	value, ok := values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return []byte(value), nil
}

// Set stores value under key.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readForWrite()
	if err != nil {
		return err
	}

	values[key] = json.RawMessage(append([]byte(nil), value...))
	return s.write(values)
}

// Remove deletes key.
func (s *FileStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readForWrite()
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(values)
}

// errCorrupt marks a storage file that exists but cannot be decoded.
var errCorrupt = errors.New("failed to decode storage file")

// readForWrite is read for the write paths. A corrupt file is moved aside
// and writing continues from an empty document.
func (s *FileStore) readForWrite() (map[string]json.RawMessage, error) {
	values, err := s.read()
	if !errors.Is(err, errCorrupt) {
		return values, err
	}

	aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixNano())
	if renameErr := os.Rename(s.path, aside); renameErr != nil {
		return nil, fmt.Errorf("failed to move corrupt storage file aside: %w", renameErr)
	}
	s.logger.Error().
		Err(err).
		Str("moved_to", aside).
		Msg("corrupt storage file moved aside, starting empty")
	return make(map[string]json.RawMessage), nil
}

func (s *FileStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file: %w", err)
	}

	values := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorrupt, err)
	}
	return values, nil
}

func (s *FileStore) write(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close storage file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	s.logger.Debug().Int("keys", len(values)).Msg("storage file written")
	return nil
}
