// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package gpmerr defines the sentinel error kinds shared across every GPM
// package. It exists so that internal packages (gitcache, lfs, archive,
// auth, gitrepo) can report and test for the same error kinds the root
// package re-exports, without importing the root package and creating an
// import cycle.
package gpmerr

// Err is the common error type behind every sentinel in this package.
type Err string

// Error implements the error interface.
func (e Err) Error() string {
	return string(e)
}

// Error is a sentinel error for all errors that originate from GPM.
const Error Err = "gpm error"

// Error kinds, reported alongside a human-readable message and wrapped
// with [Error] so that callers can test with errors.Is(err, gpmerr.Error).
const (
	// ErrParse reports a malformed package reference.
	ErrParse Err = "parse error"

	// ErrSourcesListMissing reports that no sources file was found and the
	// reference was not URI-bound to an explicit remote.
	ErrSourcesListMissing Err = "sources list missing"

	// ErrAuthenticationFailed reports that credentials were rejected after
	// the attempt budget was exhausted.
	ErrAuthenticationFailed Err = "authentication failed"

	// ErrPassphraseRequired reports an encrypted SSH key with no
	// interactive TTY and no GPM_SSH_PASS.
	ErrPassphraseRequired Err = "passphrase required"

	// ErrNetwork reports a transient network failure that has exhausted
	// its retry budget.
	ErrNetwork Err = "network error"

	// ErrRemoteNotFound reports a remote that could not be reached or
	// does not exist.
	ErrRemoteNotFound Err = "remote not found"

	// ErrRefNotFound reports a revision that could not be resolved in a
	// given repository.
	ErrRefNotFound Err = "ref not found"

	// ErrPackageNotFound reports that no candidate remote produced a
	// matching archive.
	ErrPackageNotFound Err = "package not found"

	// ErrLfsPointerInvalid reports a blob that looks like an LFS pointer
	// but fails to parse.
	ErrLfsPointerInvalid Err = "invalid lfs pointer"

	// ErrLfsHashMismatch reports a downloaded LFS object whose SHA-256
	// does not match its declared oid.
	ErrLfsHashMismatch Err = "lfs hash mismatch"

	// ErrLfsSizeMismatch reports a downloaded LFS object whose byte count
	// does not match its declared size.
	ErrLfsSizeMismatch Err = "lfs size mismatch"

	// ErrUnsafeArchivePath reports an archive entry whose normalized path
	// would escape the extraction prefix.
	ErrUnsafeArchivePath Err = "unsafe archive path"

	// ErrCacheBusy reports advisory lock contention beyond the configured
	// timeout.
	ErrCacheBusy Err = "cache busy"

	// ErrInternal reports an invariant violation that should be
	// unreachable.
	ErrInternal Err = "internal error"
)
