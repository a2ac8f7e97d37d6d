// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitcache

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/aerys/gpm/internal/gpmerr"
)

// Entry is one cache slot, corresponding to a single remote's bare clone.
// A zero Entry is not valid; obtain one via [Cache.Entry].
type Entry struct {
	dir         string
	remoteURL   string
	lockTimeout time.Duration

	lockFile *os.File
}

func (e *Entry) lockPath() string {
	return e.dir + string(os.PathSeparator) + ".lock"
}

// Lock takes an exclusive advisory lock on the entry, bounded by the
// entry's configured timeout. Writers (clone, fetch, metadata update,
// removal) must hold this before touching the entry.
func (e *Entry) Lock() error {
	return e.flock(unix.LOCK_EX)
}

// RLock takes a shared advisory lock on the entry. Readers (blob reads
// from an already-cached clone) may hold this concurrently with other
// readers, but not with a writer.
func (e *Entry) RLock() error {
	return e.flock(unix.LOCK_SH)
}

// Unlock releases whichever lock is currently held.
func (e *Entry) Unlock() error {
	if e.lockFile == nil {
		return nil
	}

	err := unix.Flock(int(e.lockFile.Fd()), unix.LOCK_UN)
	closeErr := e.lockFile.Close()
	e.lockFile = nil

	if err != nil {
		return fmt.Errorf("could not release advisory lock: %w", err)
	}

	return closeErr
}

func (e *Entry) flock(how int) error {
	f, err := os.OpenFile(e.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("could not open lock file %q: %w", e.lockPath(), err)
	}

	deadline := time.Now().Add(e.lockTimeout)
	for {
		err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB)
		if err == nil {
			e.lockFile = f

			return nil
		}

		if err != unix.EWOULDBLOCK {
			f.Close()

			return fmt.Errorf("could not acquire advisory lock %q: %w", e.lockPath(), err)
		}

		if time.Now().After(deadline) {
			f.Close()

			return fmt.Errorf("timed out waiting for advisory lock %q after %s: %w: %w", e.lockPath(), e.lockTimeout, gpmerr.ErrCacheBusy, gpmerr.Error)
		}

		time.Sleep(100 * time.Millisecond)
	}
}
