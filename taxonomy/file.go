// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package taxonomy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const backupTimeLayout = "20060102_150405"

// FileRepository loads and saves a taxonomy document on disk.
type FileRepository struct {
	path            string
	seed            Seed
	backups         bool
	backupRetention int
	logger          *slog.Logger
	now             func() time.Time
}

// FileOption configures a FileRepository.
type FileOption func(*FileRepository) error

// WithSeed sets the taxonomy used to bootstrap a missing file and to fill in
// categories missing from an existing one. Defaults to DefaultSeed.
func WithSeed(seed Seed) FileOption {
	return func(r *FileRepository) error {
		r.seed = seed
		return nil
	}
}

// WithBackups enables copying the previous file aside before each save.
func WithBackups(enabled bool) FileOption {
	return func(r *FileRepository) error {
		r.backups = enabled
		return nil
	}
}

// WithBackupRetention keeps only the n newest backups. Zero keeps all of them.
func WithBackupRetention(n int) FileOption {
	return func(r *FileRepository) error {
		if n < 0 {
			return fmt.Errorf("backup retention must be non-negative, got %d", n)
		}
		r.backupRetention = n
		return nil
	}
}

// WithFileLogger sets the logger for the repository and the stores it loads.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(r *FileRepository) error {
		r.logger = logger
		return nil
	}
}

// NewFileRepository creates a repository for the document at path.
func NewFileRepository(path string, opts ...FileOption) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("taxonomy path cannot be empty")
	}
	r := &FileRepository{
		path:    path,
		seed:    DefaultSeed(),
		backups: true,
		logger:  slog.Default().With("component", "taxonomy"),
		now:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Path returns the document location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the document and merges in seed categories it lacks.
// A missing file yields a fresh store built from the seed.
func (r *FileRepository) Load() (*Store, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Info("taxonomy file not found, bootstrapping from seed", "path", r.path, "majors", len(r.seed))
			return NewStore(r.seed, WithLogger(r.logger)), nil
		}
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy %s: %w", r.path, err)
	}

	store, err := FromDocument(&doc, WithLogger(r.logger))
	if err != nil {
		return nil, err
	}
	if added := store.MergeSeed(r.seed); added > 0 {
		r.logger.Info("merged new seed categories", "added", added)
	}
	return store, nil
}

// Save writes the store to disk, copying the previous document aside first
// when backups are enabled. The write goes through a temporary file and a rename.
func (r *FileRepository) Save(store *Store) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(store.Document()); err != nil {
		return fmt.Errorf("failed to encode taxonomy: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create taxonomy directory: %w", err)
	}

	if r.backups {
		if err := r.backup(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write taxonomy: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace taxonomy: %w", err)
	}
	return nil
}

func (r *FileRepository) backupPrefix() string {
	return strings.TrimSuffix(r.path, filepath.Ext(r.path)) + ".backup_"
}

func (r *FileRepository) backup() error {
	src, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open taxonomy for backup: %w", err)
	}
	defer src.Close()

	name := r.backupPrefix() + r.now().Format(backupTimeLayout) + ".json"
	dst, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	r.logger.Debug("taxonomy backed up", "backup", name)

	return r.pruneBackups()
}

// Backups lists backup files, oldest first.
func (r *FileRepository) Backups() ([]string, error) {
	matches, err := filepath.Glob(r.backupPrefix() + "*.json")
	if err != nil {
		return nil, err
	}
	// The timestamp layout sorts lexicographically in time order.
	slices.Sort(matches)
	return matches, nil
}

func (r *FileRepository) pruneBackups() error {
	if r.backupRetention == 0 {
		return nil
	}
	backups, err := r.Backups()
	if err != nil {
		return err
	}
	for len(backups) > r.backupRetention {
		if err := os.Remove(backups[0]); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Warn("failed to prune backup", "backup", backups[0], "err", err)
		}
		backups = backups[1:]
	}
	return nil
}
