// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	t.Parallel()

	t.Run("should parse a bare name as latest default branch", func(t *testing.T) {
		ref, err := ParseReference("my-pkg")
		require.NoError(t, err)
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, LatestDefaultBranch, ref.Constraint.Kind)
		require.Nil(t, ref.Remote)
	})

	t.Run("should parse name@refspec as an exact refspec", func(t *testing.T) {
		ref, err := ParseReference("my-pkg@feature/foo")
		require.NoError(t, err)
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, ExactRefspecKind, ref.Constraint.Kind)
		require.Equal(t, "feature/foo", ref.Constraint.Refspec)
	})

	t.Run("should parse name=revision as a semver requirement when it parses as one", func(t *testing.T) {
		ref, err := ParseReference("my-pkg=^1.2.0")
		require.NoError(t, err)
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, SemverKind, ref.Constraint.Kind)
		require.Equal(t, "^1.2.0", ref.Constraint.Requirement.String())
	})

	t.Run("should parse name=revision as an exact refspec when it does not parse as semver", func(t *testing.T) {
		ref, err := ParseReference("my-pkg=deadbeef")
		require.NoError(t, err)
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, ExactRefspecKind, ref.Constraint.Kind)
		require.Equal(t, "deadbeef", ref.Constraint.Refspec)
	})

	t.Run("should parse an implicit slash-bearing name as an exact refspec", func(t *testing.T) {
		ref, err := ParseReference("my-pkg/2.0")
		require.NoError(t, err)
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, ExactRefspecKind, ref.Constraint.Kind)
		require.Equal(t, "my-pkg/2.0", ref.Constraint.Refspec)
	})

	t.Run("should parse URI notation and bind a remote", func(t *testing.T) {
		ref, err := ParseReference("https://example.com/org/repo.git#my-pkg=^1.0.0")
		require.NoError(t, err)
		require.NotNil(t, ref.Remote)
		require.Equal(t, "https://example.com/org/repo.git", ref.Remote.String())
		require.Equal(t, "my-pkg", ref.Name)
		require.Equal(t, SemverKind, ref.Constraint.Kind)
	})

	t.Run("should reject URI notation without a fragment", func(t *testing.T) {
		_, err := ParseReference("https://example.com/org/repo.git")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("should reject an unsupported scheme", func(t *testing.T) {
		_, err := ParseReference("ftp://example.com/org/repo.git#my-pkg")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("should reject an empty reference", func(t *testing.T) {
		_, err := ParseReference("")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("should reject an invalid package name", func(t *testing.T) {
		_, err := ParseReference("bad name!")
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("should round-trip bare names", func(t *testing.T) {
		ref, err := ParseReference("my-pkg")
		require.NoError(t, err)
		reparsed, err := ParseReference(ref.String())
		require.NoError(t, err)
		require.Equal(t, ref.Name, reparsed.Name)
		require.Equal(t, ref.Constraint.Kind, reparsed.Constraint.Kind)
	})

	t.Run("should round-trip semver requirements", func(t *testing.T) {
		ref, err := ParseReference("my-pkg=^1.2.0")
		require.NoError(t, err)
		reparsed, err := ParseReference(ref.String())
		require.NoError(t, err)
		require.Equal(t, ref.Constraint.Requirement.String(), reparsed.Constraint.Requirement.String())
	})

	t.Run("should round-trip URI-bound references", func(t *testing.T) {
		ref, err := ParseReference("https://example.com/org/repo.git#my-pkg@v1")
		require.NoError(t, err)
		reparsed, err := ParseReference(ref.String())
		require.NoError(t, err)
		require.Equal(t, ref.Remote.String(), reparsed.Remote.String())
		require.Equal(t, ref.Name, reparsed.Name)
		require.Equal(t, ref.Constraint.Refspec, reparsed.Constraint.Refspec)
	})
}
