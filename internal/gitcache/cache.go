// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package gitcache implements the Source Cache component: a directory of
// bare clones, one per remote, keyed by a deterministic hash of the
// remote's canonical URL, guarded by advisory file locks so that
// concurrent GPM invocations don't corrupt a shared clone.
package gitcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// metadataFile is the name of the per-entry bookkeeping file, sitting
// alongside the bare clone directory.
const metadataFile = "metadata.yaml"

// Metadata is the bookkeeping record persisted next to a cache entry's
// bare clone.
type Metadata struct {
	RemoteURL  string    `yaml:"remote_url"`
	LastUpdate time.Time `yaml:"last_update"`
}

// Cache is a directory of per-remote bare clones rooted at Dir.
type Cache struct {
	Dir         string
	LockTimeout time.Duration
}

// New returns a [Cache] rooted at dir. The directory is created lazily, on
// first use.
func New(dir string, lockTimeout time.Duration) *Cache {
	return &Cache{Dir: dir, LockTimeout: lockTimeout}
}

// EntryDir returns the deterministic on-disk path of the cache entry for
// remoteURL, without creating or touching anything.
func (c *Cache) EntryDir(remoteURL string) string {
	return filepath.Join(c.Dir, hashRemote(remoteURL))
}

// hashRemote derives a stable, filesystem-safe directory name from a
// remote's canonical URL (spec §4.3: CacheEntry dir is a hash of the
// remote URL).
func hashRemote(remoteURL string) string {
	sum := sha256.Sum256([]byte(remoteURL))

	return hex.EncodeToString(sum[:])
}

// Entry opens (creating the backing directory if necessary) the cache
// entry for remoteURL, without taking a lock. Callers must hold the
// appropriate lock (via [Entry.Lock] / [Entry.RLock]) before touching the
// clone directory.
func (c *Cache) Entry(remoteURL string) (*Entry, error) {
	dir := c.EntryDir(remoteURL)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache entry directory %q: %w", dir, err)
	}

	timeout := c.LockTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Entry{
		dir:         dir,
		remoteURL:   remoteURL,
		lockTimeout: timeout,
	}, nil
}

// CloneDir is the path of the bare clone's object store within the entry.
func (e *Entry) CloneDir() string {
	return filepath.Join(e.dir, "clone.git")
}

func (e *Entry) metadataPath() string {
	return filepath.Join(e.dir, metadataFile)
}

// ReadMetadata loads the entry's bookkeeping record. A missing file
// returns a [Metadata] carrying only the entry's remote URL (with a zero
// LastUpdate) and no error: a freshly created entry has no metadata yet.
func (e *Entry) ReadMetadata() (Metadata, error) {
	data, err := os.ReadFile(e.metadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Metadata{RemoteURL: e.remoteURL}, nil
		}

		return Metadata{}, fmt.Errorf("could not read cache metadata: %w", err)
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("could not parse cache metadata: %w", err)
	}

	return m, nil
}

// WriteMetadata persists m for the entry. Callers must hold the entry's
// write lock.
func (e *Entry) WriteMetadata(m Metadata) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("could not serialize cache metadata: %w", err)
	}

	if err := os.WriteFile(e.metadataPath(), data, 0o644); err != nil {
		return fmt.Errorf("could not write cache metadata: %w", err)
	}

	return nil
}

// Remove deletes the entry and every file under it. Callers must hold the
// entry's write lock.
func (e *Entry) Remove() error {
	if err := os.RemoveAll(e.dir); err != nil {
		return fmt.Errorf("could not remove cache entry %q: %w", e.dir, err)
	}

	return nil
}

// List enumerates every entry directory currently present in the cache.
func (c *Cache) List() ([]string, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("could not list cache directory %q: %w", c.Dir, err)
	}

	dirs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(c.Dir, e.Name()))
		}
	}

	return dirs, nil
}

// Clean removes the cache root and everything under it.
func (c *Cache) Clean() error {
	if err := os.RemoveAll(c.Dir); err != nil {
		return fmt.Errorf("could not remove cache directory %q: %w", c.Dir, err)
	}

	return nil
}
