// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/aerys/gpm/internal/lfs"
)

// ArchiveLocation is what the Package Resolver produces: enough
// information for the Installer to fetch and unpack a package's archive,
// without re-walking the sources list (spec §3: ArchiveLocation).
type ArchiveLocation struct {
	// Remote is the remote the archive was found on.
	Remote *Remote

	// CommitHash is the resolved commit the archive was read from.
	CommitHash string

	// Path is the tree path the archive was found at, e.g.
	// "my-pkg/my-pkg.tar.gz".
	Path string

	// Pointer is set when Path's blob is a Git LFS pointer rather than
	// the archive bytes themselves.
	Pointer *lfs.Pointer

	// Blob holds the archive bytes directly when Pointer is nil.
	Blob []byte

	// Auth is the credential that successfully authenticated against
	// Remote while resolving this location, reused for the LFS-over-SSH
	// git-lfs-authenticate exchange when Pointer is set and Remote's
	// transport is ssh (spec §4.4: "LFS auth").
	Auth transport.AuthMethod
}
