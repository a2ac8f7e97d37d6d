// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/aerys/gpm/internal/semverreq"
)

func refs(names ...string) []*plumbing.Reference {
	out := make([]*plumbing.Reference, 0, len(names))
	for _, n := range names {
		out = append(out, plumbing.NewHashReference(plumbing.ReferenceName(n), plumbing.ZeroHash))
	}

	return out
}

func TestResolveDefaultBranch(t *testing.T) {
	t.Parallel()

	t.Run("should prefer refs/heads/master over a symbolic HEAD", func(t *testing.T) {
		all := refs("refs/heads/master", "refs/heads/trunk")
		all = append(all, plumbing.NewSymbolicReference(plumbing.HEAD, "refs/heads/trunk"))

		ref, err := ResolveDefaultBranch(all)
		require.NoError(t, err)
		require.Equal(t, "master", ref.ShortName)
	})

	t.Run("should fall back to refs/heads/master", func(t *testing.T) {
		ref, err := ResolveDefaultBranch(refs("refs/heads/master", "refs/heads/develop"))
		require.NoError(t, err)
		require.Equal(t, "master", ref.ShortName)
	})

	t.Run("should error when neither HEAD nor master are advertised", func(t *testing.T) {
		_, err := ResolveDefaultBranch(refs("refs/heads/develop"))
		require.Error(t, err)
	})
}

func TestResolveExactRefspec(t *testing.T) {
	t.Parallel()

	all := refs("refs/heads/feature/foo", "refs/tags/v1.0.0", "refs/tags/my-pkg/2.0.0")

	t.Run("should resolve a branch name", func(t *testing.T) {
		ref, err := ResolveExactRefspec(all, "", "feature/foo")
		require.NoError(t, err)
		require.False(t, ref.IsTag)
	})

	t.Run("should resolve a bare tag", func(t *testing.T) {
		ref, err := ResolveExactRefspec(all, "", "v1.0.0")
		require.NoError(t, err)
		require.True(t, ref.IsTag)
	})

	t.Run("should resolve a prefixed tag", func(t *testing.T) {
		ref, err := ResolveExactRefspec(all, "my-pkg", "2.0.0")
		require.NoError(t, err)
		require.Equal(t, "my-pkg/2.0.0", ref.ShortName)
	})

	t.Run("should error when nothing matches", func(t *testing.T) {
		_, err := ResolveExactRefspec(all, "", "does-not-exist")
		require.Error(t, err)
	})
}

func TestResolveSemverTag(t *testing.T) {
	t.Parallel()

	all := refs("refs/tags/my-pkg/1.2.0", "refs/tags/my-pkg/1.2.9", "refs/tags/my-pkg/2.0.0")

	t.Run("should select the highest satisfying tag", func(t *testing.T) {
		req, err := semverreq.Parse("^1.2.0")
		require.NoError(t, err)

		ref, err := ResolveSemverTag(all, "my-pkg", req)
		require.NoError(t, err)
		require.Equal(t, "my-pkg/1.2.9", ref.ShortName)
	})

	t.Run("should error when no tag satisfies the requirement", func(t *testing.T) {
		req, err := semverreq.Parse("^9.0.0")
		require.NoError(t, err)

		_, err = ResolveSemverTag(all, "my-pkg", req)
		require.Error(t, err)
	})
}
