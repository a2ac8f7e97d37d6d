// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// IsAuthError reports whether err indicates the remote rejected the
// credential used for the attempt, as opposed to a transient network
// failure.
func IsAuthError(err error) bool {
	return errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed)
}

// withRetry runs fn up to attempts times with exponential backoff (spec
// §9: retry limits, "Git: 3"). An auth error is returned immediately
// without consuming the retry budget: rotating credentials is the
// Authentication Provider's job, not this loop's.
func withRetry(ctx context.Context, attempts int, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			slog.Debug("retrying git operation", "module", "gitrepo", "op", op, "attempt", attempt, "backoff", backoff)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn()
		if lastErr == nil || IsAuthError(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
