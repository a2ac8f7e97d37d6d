// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aerys/gpm/internal/gpmerr"
)

func TestEntryLock(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir(), 200*time.Millisecond)

	t.Run("should allow multiple concurrent readers", func(t *testing.T) {
		a, err := c.Entry("https://example.com/org/repo.git")
		require.NoError(t, err)
		b, err := c.Entry("https://example.com/org/repo.git")
		require.NoError(t, err)

		require.NoError(t, a.RLock())
		require.NoError(t, b.RLock())
		require.NoError(t, a.Unlock())
		require.NoError(t, b.Unlock())
	})

	t.Run("should time out with ErrCacheBusy when a writer holds the lock", func(t *testing.T) {
		a, err := c.Entry("https://example.com/org/busy.git")
		require.NoError(t, err)
		b, err := c.Entry("https://example.com/org/busy.git")
		require.NoError(t, err)

		require.NoError(t, a.Lock())
		defer a.Unlock()

		err = b.Lock()
		require.ErrorIs(t, err, gpmerr.ErrCacheBusy)
	})
}
