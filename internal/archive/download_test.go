// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVerbatim(t *testing.T) {
	t.Parallel()

	destDir := t.TempDir()
	path, err := WriteVerbatim(strings.NewReader("archive bytes"), destDir, "my-pkg")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(destDir, "my-pkg.tar.gz"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "archive bytes", string(content))
}
