// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import "github.com/go-git/go-git/v5/plumbing/transport"

// Options tunes how a [Repository] stores objects and authenticates.
type Options struct {
	// IsFSBacked selects an on-disk (osfs) backend rooted at Dir instead of
	// the default in-memory (memfs) backend. The Source Cache always sets
	// this; ephemeral one-shot resolutions leave it unset.
	IsFSBacked bool
	Dir        string

	// Auth is attached to every remote operation. A nil value means
	// anonymous access.
	Auth transport.AuthMethod

	// Retries bounds how many attempts ListRefs, FetchRef, and FetchAll
	// make against a transient network failure before giving up. A value
	// below 1 is treated as 1 (no retry).
	Retries int

	// Debug enables a dump of the remote's advertised protocol
	// capabilities on every ListRefs call.
	Debug bool
}
