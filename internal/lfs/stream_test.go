// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package lfs

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aerys/gpm/internal/gpmerr"
)

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:])
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("should download and verify a matching object", func(t *testing.T) {
		content := []byte("hello lfs object")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(content)
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "object.bin")
		p := Pointer{OID: sha256Hex(content), Size: int64(len(content))}

		err := Fetch(t.Context(), server.Client(), Download{Href: server.URL}, p, dest, DefaultMaxRetries)
		require.NoError(t, err)

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		require.Equal(t, content, got)
	})

	t.Run("should report a size mismatch and discard the partial file", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("short"))
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "object.bin")
		p := Pointer{OID: sha256Hex([]byte("short")), Size: 999}

		err := Fetch(t.Context(), server.Client(), Download{Href: server.URL}, p, dest, DefaultMaxRetries)
		require.ErrorIs(t, err, gpmerr.ErrLfsSizeMismatch)
		_, statErr := os.Stat(dest + ".part")
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("should report a hash mismatch", func(t *testing.T) {
		content := []byte("tampered")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(content)
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "object.bin")
		p := Pointer{OID: sha256Hex([]byte("different content")), Size: int64(len(content))}

		err := Fetch(t.Context(), server.Client(), Download{Href: server.URL}, p, dest, DefaultMaxRetries)
		require.ErrorIs(t, err, gpmerr.ErrLfsHashMismatch)
	})

	t.Run("should not retry a permanent 404 and surface it immediately", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "object.bin")
		p := Pointer{OID: sha256Hex([]byte("x")), Size: 1}

		err := Fetch(t.Context(), server.Client(), Download{Href: server.URL}, p, dest, DefaultMaxRetries)
		require.ErrorIs(t, err, gpmerr.ErrRemoteNotFound)
		require.Equal(t, 1, attempts)
	})
}
