// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSourcesListPath returns "${HOME}/.gpm/sources.list" (spec §3:
// SourcesList).
func DefaultSourcesListPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w: %w", err, Error)
	}

	return filepath.Join(home, ".gpm", "sources.list"), nil
}

// SourcesList is the ordered list of candidate remotes a bare package name
// is resolved against (spec §3, §4.6).
type SourcesList struct {
	Remotes []*Remote
}

// LoadSourcesList reads a sources list file. Blank lines and lines whose
// first non-space character is "#" are ignored; every other line is
// parsed as a [Remote], in file order.
func LoadSourcesList(path string) (*SourcesList, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("sources list %q does not exist: %w: %w", path, ErrSourcesListMissing, Error)
		}

		return nil, fmt.Errorf("could not open sources list %q: %w: %w", path, err, Error)
	}
	defer f.Close()

	return ParseSourcesList(f)
}

// ParseSourcesList parses a sources list from an arbitrary reader.
func ParseSourcesList(r io.Reader) (*SourcesList, error) {
	list := &SourcesList{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		remote, err := ParseRemote(line)
		if err != nil {
			return nil, fmt.Errorf("sources list line %d: %w", lineNo, err)
		}

		list.Remotes = append(list.Remotes, remote)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read sources list: %w: %w", err, Error)
	}

	return list, nil
}
