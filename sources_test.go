// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSourcesList(t *testing.T) {
	t.Parallel()

	t.Run("should skip blank and comment lines", func(t *testing.T) {
		input := strings.Join([]string{
			"# primary registry",
			"",
			"https://example.com/org/a.git",
			"   ",
			"# secondary registry",
			"ssh://git@example.com/org/b.git",
		}, "\n")

		list, err := ParseSourcesList(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, list.Remotes, 2)
		require.Equal(t, "https://example.com/org/a.git", list.Remotes[0].String())
		require.Equal(t, "ssh://git@example.com/org/b.git", list.Remotes[1].String())
	})

	t.Run("should preserve file order", func(t *testing.T) {
		input := "https://example.com/c.git\nhttps://example.com/a.git\nhttps://example.com/b.git\n"

		list, err := ParseSourcesList(strings.NewReader(input))
		require.NoError(t, err)
		require.Equal(t, []string{
			"https://example.com/c.git",
			"https://example.com/a.git",
			"https://example.com/b.git",
		}, remoteStrings(list))
	})

	t.Run("should reject a malformed remote with its line number", func(t *testing.T) {
		_, err := ParseSourcesList(strings.NewReader("https://ok.example.com/a.git\nftp://bad.example.com/b.git\n"))
		require.Error(t, err)
		require.ErrorIs(t, err, ErrParse)
		require.Contains(t, err.Error(), "line 2")
	})
}

func TestLoadSourcesList(t *testing.T) {
	t.Parallel()

	t.Run("should report ErrSourcesListMissing for a nonexistent file", func(t *testing.T) {
		_, err := LoadSourcesList(t.TempDir() + "/does-not-exist/sources.list")
		require.ErrorIs(t, err, ErrSourcesListMissing)
	})
}

func remoteStrings(list *SourcesList) []string {
	out := make([]string, len(list.Remotes))
	for i, r := range list.Remotes {
		out[i] = r.String()
	}

	return out
}
