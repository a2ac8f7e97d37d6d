// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheEntry(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir(), time.Second)

	t.Run("should derive a stable, deterministic entry directory", func(t *testing.T) {
		a := c.EntryDir("https://example.com/org/repo.git")
		b := c.EntryDir("https://example.com/org/repo.git")
		other := c.EntryDir("https://example.com/org/other.git")

		require.Equal(t, a, b)
		require.NotEqual(t, a, other)
	})

	t.Run("should round-trip metadata", func(t *testing.T) {
		entry, err := c.Entry("https://example.com/org/repo.git")
		require.NoError(t, err)

		require.NoError(t, entry.Lock())
		defer entry.Unlock()

		now := time.Now().Truncate(time.Second)
		require.NoError(t, entry.WriteMetadata(Metadata{RemoteURL: "https://example.com/org/repo.git", LastUpdate: now}))

		m, err := entry.ReadMetadata()
		require.NoError(t, err)
		require.Equal(t, "https://example.com/org/repo.git", m.RemoteURL)
		require.True(t, now.Equal(m.LastUpdate))
	})

	t.Run("should return metadata with a zero LastUpdate for a fresh entry", func(t *testing.T) {
		entry, err := c.Entry("https://example.com/org/fresh.git")
		require.NoError(t, err)

		m, err := entry.ReadMetadata()
		require.NoError(t, err)
		require.True(t, m.LastUpdate.IsZero())
	})
}

func TestCacheCleanAndList(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir(), time.Second)

	_, err := c.Entry("https://example.com/org/a.git")
	require.NoError(t, err)
	_, err = c.Entry("https://example.com/org/b.git")
	require.NoError(t, err)

	dirs, err := c.List()
	require.NoError(t, err)
	require.Len(t, dirs, 2)

	require.NoError(t, c.Clean())

	dirs, err = c.List()
	require.NoError(t, err)
	require.Empty(t, dirs)
}
