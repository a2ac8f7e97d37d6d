// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package lfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aerys/gpm/internal/gpmerr"
)

// DefaultMaxRetries bounds the number of attempts [Fetch] makes against
// transient network errors before giving up with [gpmerr.ErrNetwork],
// used when the caller passes a non-positive maxRetries (spec §9:
// "retry limits ... LFS transient: 5").
const DefaultMaxRetries = 5

// Fetch downloads dl to destPath, resuming a partial prior attempt via a
// Range request, retrying transient failures with exponential backoff up
// to maxRetries attempts (a non-positive value falls back to
// [DefaultMaxRetries]), and verifying the result against p before the
// final rename. destPath's parent directory must already exist; the
// download itself happens through a sibling ".part" file so a crash
// never leaves a corrupt final file in place.
func Fetch(ctx context.Context, client *http.Client, dl Download, p Pointer, destPath string, maxRetries int) error {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	partPath := destPath + ".part"

	var lastErr error
	for attempt := range maxRetries {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			slog.Debug("retrying LFS download", "module", "lfs", "oid", p.OID, "attempt", attempt, "backoff", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := attemptFetch(ctx, client, dl, p, partPath)
		if err == nil {
			return finalizeDownload(partPath, destPath, p)
		}

		if !isTransient(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("lfs download of oid %s failed after %d attempts: %w: %w: %w", p.OID, maxRetries, lastErr, gpmerr.ErrNetwork, gpmerr.Error)
}

func attemptFetch(ctx context.Context, client *http.Client, dl Download, p Pointer, partPath string) error {
	offset, err := resumeOffset(partPath)
	if err != nil {
		return err
	}

	if offset >= p.Size {
		return nil // already fully downloaded from a prior attempt
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, dl.Href, nil)
	if err != nil {
		return fmt.Errorf("could not build LFS download request: %w", err)
	}

	for k, v := range dl.Header {
		req.Header.Set(k, v)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := client.Do(req)
	if err != nil {
		return transientf("LFS download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		if isTransientStatus(resp.StatusCode) {
			return transientf("LFS download returned %s", errors.New(resp.Status))
		}

		return fmt.Errorf("LFS download returned %s: %w: %w", resp.Status, gpmerr.ErrRemoteNotFound, gpmerr.Error)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(partPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("could not open %q for writing: %w", partPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return transientf("LFS download interrupted: %w", err)
	}

	return nil
}

func resumeOffset(partPath string) (int64, error) {
	info, err := os.Stat(partPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("could not stat partial download %q: %w", partPath, err)
	}

	return info.Size(), nil
}

// finalizeDownload verifies the completed ".part" file's size and SHA-256
// against p, then atomically renames it into place. A mismatch discards
// the partial file rather than leaving corrupt bytes behind.
func finalizeDownload(partPath, destPath string, p Pointer) error {
	info, err := os.Stat(partPath)
	if err != nil {
		return fmt.Errorf("could not stat completed download %q: %w", partPath, err)
	}

	if info.Size() != p.Size {
		os.Remove(partPath)

		return fmt.Errorf("oid %s: downloaded %d bytes, expected %d: %w: %w", p.OID, info.Size(), p.Size, gpmerr.ErrLfsSizeMismatch, gpmerr.Error)
	}

	sum, err := sha256File(partPath)
	if err != nil {
		return err
	}

	if sum != p.OID {
		os.Remove(partPath)

		return fmt.Errorf("oid %s: downloaded content hashes to %s: %w: %w", p.OID, sum, gpmerr.ErrLfsHashMismatch, gpmerr.Error)
	}

	if err := os.Rename(partPath, destPath); err != nil {
		return fmt.Errorf("could not finalize download to %q: %w", destPath, err)
	}

	return nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open %q for hashing: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("could not hash %q: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func transientf(format string, args ...any) error {
	return transientError{err: fmt.Errorf(format, args...)}
}

func isTransient(err error) bool {
	var t transientError

	return errors.As(err, &t)
}

// isTransientStatus reports whether an HTTP status code from the LFS
// download endpoint is worth retrying: server errors and rate-limiting,
// per spec §4.5 ("Transient network errors ... 5xx, 429"). Anything else
// (404, 403, ...) is permanent and surfaces immediately.
func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
