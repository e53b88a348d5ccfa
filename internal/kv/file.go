package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"feedkit/internal/config"
)

// File is the local fallback store: one JSON file holding every key, written
// atomically on each change so a crash never leaves a torn state file.
type File struct {
	Logger *slog.Logger
	Config *config.Config

	mu      sync.Mutex
	path    string
	entries map[string][]byte
}

func (f *File) Init(context.Context) error {
	f.Logger = f.Logger.With("component", "kv.File")

	f.path = f.Config.StatePath
	if f.path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		f.path = filepath.Join(home, ".feedkit", "state.json")
	}

	f.entries = map[string][]byte{}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	return json.Unmarshal(raw, &f.entries)
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

func (f *File) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[key] = value
	return f.flush()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[key]; !ok {
		return nil
	}
	delete(f.entries, key)
	return f.flush()
}

// flush writes the whole map through a temp file and rename. Callers hold mu.
func (f *File) flush() error {
	raw, err := json.Marshal(f.entries)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
