// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"

	"github.com/aerys/gpm/internal/gpmerr"
)

func TestResolverCandidateRemotes(t *testing.T) {
	t.Parallel()

	remote, err := ParseRemote("https://example.com/org/repo.git")
	require.NoError(t, err)

	t.Run("should prefer a URI-bound remote over the sources list", func(t *testing.T) {
		r := &Resolver{sources: &SourcesList{Remotes: []*Remote{remote}}}
		ref := &PackageReference{Name: "pkg", Remote: remote}

		remotes, err := r.candidateRemotes(ref)
		require.NoError(t, err)
		require.Equal(t, []*Remote{remote}, remotes)
	})

	t.Run("should fall back to the sources list", func(t *testing.T) {
		r := &Resolver{sources: &SourcesList{Remotes: []*Remote{remote}}}
		ref := &PackageReference{Name: "pkg"}

		remotes, err := r.candidateRemotes(ref)
		require.NoError(t, err)
		require.Equal(t, []*Remote{remote}, remotes)
	})

	t.Run("should error when there is no remote and no sources list", func(t *testing.T) {
		r := &Resolver{}
		ref := &PackageReference{Name: "pkg"}

		_, err := r.candidateRemotes(ref)
		require.Error(t, err)
		require.ErrorIs(t, err, gpmerr.ErrSourcesListMissing)
	})
}

func TestResolveConstraintDispatch(t *testing.T) {
	t.Parallel()

	all := []*plumbing.Reference{
		plumbing.NewHashReference(plumbing.NewTagReferenceName("v1.2.3"), plumbing.ZeroHash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("master"), plumbing.ZeroHash),
	}

	t.Run("should resolve LatestDefaultBranch via the default branch rule", func(t *testing.T) {
		ref := &PackageReference{Name: "pkg", Constraint: Constraint{Kind: LatestDefaultBranch}}

		resolved, err := resolveConstraint(all, ref)
		require.NoError(t, err)
		require.Equal(t, "master", resolved.ShortName)
	})

	t.Run("should resolve ExactRefspecKind via the literal refspec rule", func(t *testing.T) {
		ref := &PackageReference{Name: "pkg", Constraint: Constraint{Kind: ExactRefspecKind, Refspec: "v1.2.3"}}

		resolved, err := resolveConstraint(all, ref)
		require.NoError(t, err)
		require.True(t, resolved.IsTag)
	})

	t.Run("should error on an exact refspec with no match", func(t *testing.T) {
		ref := &PackageReference{Name: "pkg", Constraint: Constraint{Kind: ExactRefspecKind, Refspec: "missing"}}

		_, err := resolveConstraint(all, ref)
		require.Error(t, err)
	})
}

func TestResolverResolveWithNoCandidateRemotes(t *testing.T) {
	t.Parallel()

	r := &Resolver{}
	ref := &PackageReference{Name: "pkg", Constraint: Constraint{Kind: LatestDefaultBranch}}

	_, err := r.Resolve(context.Background(), ref)
	require.Error(t, err)
	require.ErrorIs(t, err, gpmerr.ErrSourcesListMissing)
}
