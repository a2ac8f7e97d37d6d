// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package gpm treats any Git repository as a package registry.
//
// # Package references
//
// A package reference is a single string recognized by one of five
// notations, in order of precedence:
//
//   - URI notation: "${scheme}://…#${pkg}" binds an explicit remote and
//     re-parses ${pkg} using the rules below.
//   - explicit name=revision: "name=1.2.3" or "name=some-branch".
//   - refspec with "@": "name@some-branch".
//   - implicit name in tag: "my-pkg/2.0" (no "=").
//   - bare name: "my-pkg" resolves to the HEAD of the default branch.
//
// # Resolution
//
// [Resolver] walks the ordered remotes from [SourcesList] (or the single
// remote bound by URI notation), consults the local Source Cache mirror of each,
// and returns an [ArchiveLocation] describing where the package archive
// lives and whether it is stored via Git LFS.
//
// # Versions
//
// SemVer requirements (`^`, `~`, comparators, wildcards) are matched against
// a repository's `${name}/${version}` tags by the package's version
// matcher; see internal/semverreq.
//
// # Installation
//
// [Installer] either extracts the resolved archive into a prefix directory
// or copies it verbatim, resolving Git LFS pointers transparently.
package gpm
