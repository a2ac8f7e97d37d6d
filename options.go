// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import "time"

func optionsWithDefaults[O any, T ~func(*O)](opts []T) O {
	var o O
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// ResolveOption configures a [Resolver].
type ResolveOption func(*resolveOptions)

// ResolveWithCacheDir overrides the Source Cache root directory. Default:
// "${HOME}/.gpm/cache".
func ResolveWithCacheDir(dir string) ResolveOption {
	return func(o *resolveOptions) {
		o.cacheDir = dir
	}
}

// ResolveWithLockTimeout bounds how long a resolution waits on another
// process's advisory cache lock. Default: 60s.
func ResolveWithLockTimeout(d time.Duration) ResolveOption {
	return func(o *resolveOptions) {
		o.lockTimeout = d
	}
}

// ResolveWithDebug enables a dump of each remote's advertised git
// protocol capabilities.
func ResolveWithDebug(enabled bool) ResolveOption {
	return func(o *resolveOptions) {
		o.debug = enabled
	}
}

// ResolveWithoutCache bypasses the Source Cache entirely, resolving
// in-memory against the remote every time. Useful for one-shot lookups
// that shouldn't leave anything on disk.
func ResolveWithoutCache(disabled bool) ResolveOption {
	return func(o *resolveOptions) {
		o.noCache = disabled
	}
}

type resolveOptions struct {
	cacheDir    string
	lockTimeout time.Duration
	debug       bool
	noCache     bool
}

// InstallOption configures an [Installer]. It embeds every [ResolveOption]
// (an Installer always resolves before installing).
type InstallOption func(*installOptions)

// InstallWithCacheDir is the Installer-facing equivalent of
// [ResolveWithCacheDir].
func InstallWithCacheDir(dir string) InstallOption {
	return func(o *installOptions) {
		ResolveWithCacheDir(dir)(&o.resolveOptions)
	}
}

// InstallWithLockTimeout is the Installer-facing equivalent of
// [ResolveWithLockTimeout].
func InstallWithLockTimeout(d time.Duration) InstallOption {
	return func(o *installOptions) {
		ResolveWithLockTimeout(d)(&o.resolveOptions)
	}
}

// InstallWithDebug is the Installer-facing equivalent of
// [ResolveWithDebug].
func InstallWithDebug(enabled bool) InstallOption {
	return func(o *installOptions) {
		ResolveWithDebug(enabled)(&o.resolveOptions)
	}
}

type installOptions struct {
	resolveOptions
}
