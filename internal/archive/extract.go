// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package archive implements the Installer's extraction step: unpacking
// a tar.gz archive into a destination prefix, refusing any entry whose
// path would escape it.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/aerys/gpm/internal/gpmerr"
)

// Extract unpacks the tar.gz archive read from r into prefix, creating
// prefix if it doesn't already exist. An entry whose name is absolute or
// climbs out of prefix via "..", such as "../../etc", is rejected with
// ErrUnsafeArchivePath; every accepted entry's final path is then joined
// through [securejoin.SecureJoin] (spec §4.7: Installer).
//
// Extraction happens into a sibling temporary directory first, then is
// renamed into place, so a failed or interrupted extraction never leaves
// a partially-populated prefix.
func Extract(r io.Reader, prefix string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("could not open gzip stream: %w", err)
	}
	defer gz.Close()

	staging, err := os.MkdirTemp(filepath.Dir(prefix), ".gpm-extract-*")
	if err != nil {
		return fmt.Errorf("could not create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractTar(tar.NewReader(gz), staging); err != nil {
		return err
	}

	if err := os.RemoveAll(prefix); err != nil {
		return fmt.Errorf("could not clear existing prefix %q: %w", prefix, err)
	}

	if err := os.Rename(staging, prefix); err != nil {
		return fmt.Errorf("could not move extracted archive into %q: %w", prefix, err)
	}

	return nil
}

func extractTar(tr *tar.Reader, root string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read tar entry: %w", err)
		}

		if filepath.IsAbs(hdr.Name) || escapesRoot(hdr.Name) {
			return fmt.Errorf("archive entry %q escapes extraction prefix: %w: %w", hdr.Name, gpmerr.ErrUnsafeArchivePath, gpmerr.Error)
		}

		dest, err := securejoin.SecureJoin(root, hdr.Name)
		if err != nil {
			return fmt.Errorf("archive entry %q escapes extraction prefix: %w: %w: %w", hdr.Name, err, gpmerr.ErrUnsafeArchivePath, gpmerr.Error)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, os.FileMode(hdr.Mode)|0o700); err != nil {
				return fmt.Errorf("could not create directory %q: %w", dest, err)
			}
		case tar.TypeReg:
			if err := writeRegularFile(tr, dest, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			// A symlink target is relative to its own entry's directory, not
			// root. Reject an absolute target outright, and reject a
			// relative one whose cleaned path climbs out of root via "..",
			// since SecureJoin's own clamping would otherwise silently
			// rewrite rather than refuse it.
			if filepath.IsAbs(hdr.Linkname) {
				return fmt.Errorf("archive entry %q has an absolute symlink target %q: %w: %w", hdr.Name, hdr.Linkname, gpmerr.ErrUnsafeArchivePath, gpmerr.Error)
			}
			if escapesRoot(filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)) {
				return fmt.Errorf("archive entry %q has a symlink target %q that escapes the extraction prefix: %w: %w", hdr.Name, hdr.Linkname, gpmerr.ErrUnsafeArchivePath, gpmerr.Error)
			}
			if err := os.Symlink(hdr.Linkname, dest); err != nil {
				return fmt.Errorf("could not create symlink %q: %w", dest, err)
			}
		default:
			// ignore device files, fifos, and other non-portable entry types
		}
	}
}

// escapesRoot reports whether a "/"-rooted relative path, once cleaned,
// climbs above its root via a leading "..".
func escapesRoot(rel string) bool {
	cleaned := filepath.Clean(rel)

	return cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator))
}

func writeRegularFile(r io.Reader, dest string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("could not create parent directory for %q: %w", dest, err)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", dest, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("could not write %q: %w", dest, err)
	}

	return nil
}
