package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	core "github.com/kilianp07/induction/core/snapshot"
)

// JSONStore keeps the latest snapshot in a single JSON file. Saves replace the
// file atomically so readers never observe a partial write.
type JSONStore struct {
	path string
	mu   sync.RWMutex
}

// NewJSONStore ensures the parent directory of path exists.
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, fmt.Errorf("json snapshot store: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	return &JSONStore{path: path}, nil
}

// Save replaces the snapshot file atomically.
func (s *JSONStore) Save(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := renameio.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Latest reads the current snapshot file.
func (s *JSONStore) Latest(ctx context.Context) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return core.Snapshot{}, core.ErrNoSnapshot
	}
	if err != nil {
		return core.Snapshot{}, err
	}
	var snap core.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *JSONStore) Close() error { return nil }
