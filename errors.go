// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import "github.com/aerys/gpm/internal/gpmerr"

// Error is a sentinel error for all errors that originate from this module.
const Error = gpmerr.Error

// Error kinds, reported alongside a human-readable message and wrapped
// with [Error] so that callers can test with errors.Is(err, gpm.Error).
const (
	// ErrParse reports a malformed package reference.
	ErrParse = gpmerr.ErrParse

	// ErrSourcesListMissing reports that no sources file was found and the
	// reference was not URI-bound to an explicit remote.
	ErrSourcesListMissing = gpmerr.ErrSourcesListMissing

	// ErrAuthenticationFailed reports that credentials were rejected after
	// the attempt budget was exhausted.
	ErrAuthenticationFailed = gpmerr.ErrAuthenticationFailed

	// ErrPassphraseRequired reports an encrypted SSH key with no
	// interactive TTY and no GPM_SSH_PASS.
	ErrPassphraseRequired = gpmerr.ErrPassphraseRequired

	// ErrNetwork reports a transient network failure that has exhausted
	// its retry budget.
	ErrNetwork = gpmerr.ErrNetwork

	// ErrRemoteNotFound reports a remote that could not be reached or
	// does not exist.
	ErrRemoteNotFound = gpmerr.ErrRemoteNotFound

	// ErrRefNotFound reports a revision that could not be resolved in a
	// given repository.
	ErrRefNotFound = gpmerr.ErrRefNotFound

	// ErrPackageNotFound reports that no candidate remote produced a
	// matching archive.
	ErrPackageNotFound = gpmerr.ErrPackageNotFound

	// ErrLfsPointerInvalid reports a blob that looks like an LFS pointer
	// but fails to parse.
	ErrLfsPointerInvalid = gpmerr.ErrLfsPointerInvalid

	// ErrLfsHashMismatch reports a downloaded LFS object whose SHA-256
	// does not match its declared oid.
	ErrLfsHashMismatch = gpmerr.ErrLfsHashMismatch

	// ErrLfsSizeMismatch reports a downloaded LFS object whose byte count
	// does not match its declared size.
	ErrLfsSizeMismatch = gpmerr.ErrLfsSizeMismatch

	// ErrUnsafeArchivePath reports an archive entry whose normalized path
	// would escape the extraction prefix.
	ErrUnsafeArchivePath = gpmerr.ErrUnsafeArchivePath

	// ErrCacheBusy reports advisory lock contention beyond the configured
	// timeout.
	ErrCacheBusy = gpmerr.ErrCacheBusy

	// ErrInternal reports an invariant violation that should be
	// unreachable.
	ErrInternal = gpmerr.ErrInternal
)
