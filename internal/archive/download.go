// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteVerbatim writes r to "${destDir}/${name}.tar.gz" without unpacking
// it, via a sibling temp file renamed into place (spec §4.7: download
// operation, as opposed to install).
func WriteVerbatim(r io.Reader, destDir, name string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create destination directory %q: %w", destDir, err)
	}

	dest := filepath.Join(destDir, name+".tar.gz")

	tmp, err := os.CreateTemp(destDir, ".gpm-download-*")
	if err != nil {
		return "", fmt.Errorf("could not create temporary file in %q: %w", destDir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()

		return "", fmt.Errorf("could not write archive: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("could not finalize archive write: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("could not move archive to %q: %w", dest, err)
	}

	return dest, nil
}
