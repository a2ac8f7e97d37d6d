// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRepo(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("https://example.com/org/repo.git")
	require.NoError(t, err)

	t.Run("should default to an in-memory backend", func(t *testing.T) {
		r := NewRepo(u, nil)
		require.NotNil(t, r)
		require.Equal(t, "/", r.fs().Root())
	})

	t.Run("should use an on-disk backend rooted at Dir when IsFSBacked is set", func(t *testing.T) {
		dir := t.TempDir()
		r := NewRepo(u, &Options{IsFSBacked: true, Dir: dir})
		require.NotNil(t, r)
		require.Equal(t, dir, r.fs().Root())
	})

	t.Run("should report an error from init with no URL", func(t *testing.T) {
		r := NewRepo(&url.URL{}, nil)
		_, _, err := r.init()
		require.Error(t, err)
	})
}
