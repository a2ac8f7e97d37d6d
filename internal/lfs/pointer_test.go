// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package lfs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aerys/gpm/internal/gpmerr"
)

const samplePointer = "version https://git-lfs.github.com/spec/v1\n" +
	"oid sha256:4d7a214614ab2935c943f9e0ff69d22eadbb8f32b1258daaa5e2ca24d17e2393\n" +
	"size 12345\n"

func TestLooksLikePointer(t *testing.T) {
	t.Parallel()

	require.True(t, LooksLikePointer([]byte(samplePointer)))
	require.False(t, LooksLikePointer([]byte("\x1f\x8b\x08\x00binary archive bytes")))
}

func TestParsePointer(t *testing.T) {
	t.Parallel()

	t.Run("should parse a well-formed pointer", func(t *testing.T) {
		p, err := ParsePointer([]byte(samplePointer))
		require.NoError(t, err)
		require.Equal(t, "4d7a214614ab2935c943f9e0ff69d22eadbb8f32b1258daaa5e2ca24d17e2393", p.OID)
		require.EqualValues(t, 12345, p.Size)
	})

	t.Run("should reject a bad version line", func(t *testing.T) {
		_, err := ParsePointer([]byte("version https://example.com/bogus\noid sha256:" + "0" + repeatZero(63) + "\nsize 1\n"))
		require.ErrorIs(t, err, gpmerr.ErrLfsPointerInvalid)
	})

	t.Run("should reject a malformed oid", func(t *testing.T) {
		_, err := ParsePointer([]byte("version https://git-lfs.github.com/spec/v1\noid sha256:not-hex\nsize 1\n"))
		require.ErrorIs(t, err, gpmerr.ErrLfsPointerInvalid)
	})

	t.Run("should reject a malformed size", func(t *testing.T) {
		_, err := ParsePointer([]byte("version https://git-lfs.github.com/spec/v1\noid sha256:" + repeatZero(64) + "\nsize abc\n"))
		require.ErrorIs(t, err, gpmerr.ErrLfsPointerInvalid)
	})

	t.Run("should reject a truncated pointer", func(t *testing.T) {
		_, err := ParsePointer([]byte("version https://git-lfs.github.com/spec/v1\n"))
		require.ErrorIs(t, err, gpmerr.ErrLfsPointerInvalid)
	})
}

func repeatZero(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}

	return string(b)
}
