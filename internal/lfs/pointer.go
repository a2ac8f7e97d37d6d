// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package lfs implements the LFS Client component: detecting and parsing
// Git LFS pointer blobs, negotiating a download URL through the LFS
// batch API, and fetching the backing object with resume and integrity
// verification.
package lfs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aerys/gpm/internal/gpmerr"
)

// pointerVersion is the only Git LFS pointer spec version GPM understands
// (spec §3: LfsPointer).
const pointerVersion = "https://git-lfs.github.com/spec/v1"

var oidLine = regexp.MustCompile(`^oid sha256:([0-9a-f]{64})$`)

var sizeLine = regexp.MustCompile(`^size ([0-9]+)$`)

// Pointer is a parsed Git LFS pointer file (spec §3: LfsPointer).
type Pointer struct {
	OID  string // lowercase hex SHA-256, without the "sha256:" prefix
	Size int64
}

// LooksLikePointer reports whether blob's first line matches the LFS
// pointer version header, without fully parsing it. The Package Resolver
// uses this to cheaply distinguish pointer blobs from ordinary archive
// bytes before committing to the stricter [ParsePointer].
func LooksLikePointer(blob []byte) bool {
	line, _, _ := strings.Cut(string(blob), "\n")

	return strings.TrimSpace(line) == "version "+pointerVersion
}

// ParsePointer parses the 3-line Git LFS pointer text grammar:
//
//	version https://git-lfs.github.com/spec/v1
//	oid sha256:<64 lowercase hex characters>
//	size <non-negative integer>
//
// These three lines must come first, in this order, or the result is
// [gpmerr.ErrLfsPointerInvalid]; any lines after them are ignored.
func ParsePointer(blob []byte) (Pointer, error) {
	lines := strings.Split(strings.TrimRight(string(blob), "\n"), "\n")
	if len(lines) < 3 {
		return Pointer{}, invalidf("pointer has %d lines, expected at least 3", len(lines))
	}

	if strings.TrimSpace(lines[0]) != "version "+pointerVersion {
		return Pointer{}, invalidf("unexpected version line %q", lines[0])
	}

	oidMatch := oidLine.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if oidMatch == nil {
		return Pointer{}, invalidf("malformed oid line %q", lines[1])
	}

	sizeMatch := sizeLine.FindStringSubmatch(strings.TrimSpace(lines[2]))
	if sizeMatch == nil {
		return Pointer{}, invalidf("malformed size line %q", lines[2])
	}

	size, err := strconv.ParseInt(sizeMatch[1], 10, 64)
	if err != nil {
		return Pointer{}, invalidf("size %q overflows int64", sizeMatch[1])
	}

	return Pointer{OID: oidMatch[1], Size: size}, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf(format+": %w: %w", append(args, gpmerr.ErrLfsPointerInvalid, gpmerr.Error)...)
}
