// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package semverreq implements the Version Matcher component: parsing a
// SemVer requirement expression and selecting the highest tag in a
// candidate set that satisfies it.
//
// Requirement parsing is delegated to [Masterminds/semver/v3], whose
// constraint grammar (=, >, >=, <, <=, ~, ^, wildcards) matches the one
// described by spec §3 almost verbatim. Candidate tag ordering instead
// uses [blang/semver/v4], mirroring the teacher package's tolerant tag
// parsing in its internal/git/ref.go — two libraries, two distinct
// sub-problems.
package semverreq

import (
	"fmt"
	"sort"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"

	blang "github.com/blang/semver/v4"
)

type matcherError string

func (e matcherError) Error() string { return string(e) }

// ErrMatcher is a sentinel error for all errors originating from this
// package.
const ErrMatcher matcherError = "semver matcher error"

// Requirement wraps a parsed SemVer requirement expression.
type Requirement struct {
	raw        string
	constraint *mmsemver.Constraints
}

// Parse parses a SemVer requirement expression (spec §3: SemverRequirement).
//
// Missing minor/patch components desugar to a relaxed upper bound exactly
// as Masterminds/semver/v3 does for bare comparators (">1.2" means
// ">1.2.0"), and "~"/"^" follow the widely published semantics documented
// in spec §3.
func Parse(expr string) (*Requirement, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil, fmt.Errorf("empty requirement is not a valid semver constraint: %w", ErrMatcher)
	}

	c, err := mmsemver.NewConstraint(trimmed)
	if err != nil {
		return nil, fmt.Errorf("could not parse semver requirement %q: %w: %w", expr, err, ErrMatcher)
	}

	return &Requirement{raw: trimmed, constraint: c}, nil
}

// String returns the original requirement expression.
func (r *Requirement) String() string {
	return r.raw
}

// Matches reports whether a version satisfies the requirement.
func (r *Requirement) Matches(version string) bool {
	v, err := mmsemver.NewVersion(version)
	if err != nil {
		return false
	}

	return r.constraint.Check(v)
}

// Candidate is one entry under consideration by [Select]: a tag name
// together with the SemVer triple extracted from it.
type Candidate struct {
	Tag     string
	Version blang.Version
}

// ExtractVersion extracts the trailing SemVer triple from a tag of the
// form "${prefix}/${v}" (or a bare "${v}"), per spec §4.2.
//
// If prefix is non-empty, the tag's prefix (everything before the last
// "/") must equal it exactly; tags that don't parse as SemVer, or whose
// prefix doesn't match, are rejected.
func ExtractVersion(tag, prefix string) (blang.Version, bool) {
	name := tag
	if idx := strings.LastIndex(tag, "/"); idx >= 0 {
		if prefix != "" && tag[:idx] != prefix {
			return blang.Version{}, false
		}
		name = tag[idx+1:]
	} else if prefix != "" {
		return blang.Version{}, false
	}

	v, err := blang.ParseTolerant(name)
	if err != nil {
		return blang.Version{}, false
	}

	return v, true
}

// Select returns the candidate whose trailing version token is highest
// among those satisfying req, breaking ties by lexical tag name (spec
// §4.2 / §8).
func Select(req *Requirement, tags []string, prefix string) (string, bool) {
	candidates := make([]Candidate, 0, len(tags))
	for _, tag := range tags {
		v, ok := ExtractVersion(tag, prefix)
		if !ok {
			continue
		}

		if !req.Matches(v.String()) {
			continue
		}

		candidates = append(candidates, Candidate{Tag: tag, Version: v})
	}

	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Version.EQ(b.Version) {
			return a.Tag < b.Tag // deterministic tie-break: lexical tag order
		}

		return a.Version.GT(b.Version)
	})

	return candidates[0].Tag, true
}
