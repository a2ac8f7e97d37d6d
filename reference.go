// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aerys/gpm/internal/semverreq"
)

// ConstraintKind discriminates the three ways a [PackageReference] may pin
// a revision. See spec §3 (PackageReference).
type ConstraintKind int

const (
	// LatestDefaultBranch resolves to the HEAD of the default branch.
	LatestDefaultBranch ConstraintKind = iota
	// ExactRefspecKind resolves a literal ref, tag, or branch name.
	ExactRefspecKind
	// SemverKind resolves the highest tag satisfying a SemVer requirement.
	SemverKind
)

// Constraint is the desugared revision constraint of a [PackageReference].
// Exactly one field is meaningful, selected by Kind.
type Constraint struct {
	Kind        ConstraintKind
	Refspec     string                    // valid when Kind == ExactRefspecKind
	Requirement *semverreq.Requirement    // valid when Kind == SemverKind
}

func (c Constraint) String() string {
	switch c.Kind {
	case ExactRefspecKind:
		return c.Refspec
	case SemverKind:
		return c.Requirement.String()
	default:
		return ""
	}
}

// packageNamePattern is the grammar for package names (spec §4.1).
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// uriSchemePattern recognizes the "${scheme}://" prefix of URI notation.
var uriSchemePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+.\-]*)://`)

// PackageReference is the desugared output of the Reference Parser (spec
// §3, §4.1).
type PackageReference struct {
	Remote     *Remote
	Name       string
	Constraint Constraint
}

// ParseReference classifies a user-supplied reference string into one of
// the five supported notations (spec §4.1), in precedence order:
//
//  1. URI notation: "${scheme}://…#${pkg}"
//  2. explicit "name=revision"
//  3. "name@refspec"
//  4. implicit name in a slash-bearing tag, e.g. "my-pkg/2.0"
//  5. bare name
func ParseReference(raw string) (*PackageReference, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty package reference: %w: %w", ErrParse, Error)
	}

	if m := uriSchemePattern.FindStringSubmatch(raw); m != nil {
		scheme := strings.ToLower(m[1])
		if !supportedTransports[scheme] {
			return nil, fmt.Errorf("unsupported scheme %q in URI notation: %w: %w", scheme, ErrParse, Error)
		}

		idx := strings.Index(raw, "#")
		if idx < 0 {
			return nil, fmt.Errorf("URI notation requires a %q fragment naming the package: %w: %w", "#", ErrParse, Error)
		}

		remote, err := ParseRemote(raw[:idx])
		if err != nil {
			return nil, err
		}

		ref, err := parseUnbound(raw[idx+1:])
		if err != nil {
			return nil, err
		}

		ref.Remote = remote

		return ref, nil
	}

	return parseUnbound(raw)
}

// parseUnbound implements rules 2-5 of spec §4.1, with no remote bound.
func parseUnbound(raw string) (*PackageReference, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty package name: %w: %w", ErrParse, Error)
	}

	if idx := strings.Index(raw, "="); idx >= 0 {
		name := raw[:idx]
		revision := raw[idx+1:]
		if err := validateName(name); err != nil {
			return nil, err
		}

		return refWithRevision(name, revision)
	}

	if idx := strings.Index(raw, "@"); idx >= 0 {
		name := raw[:idx]
		refspec := raw[idx+1:]
		if err := validateName(name); err != nil {
			return nil, err
		}
		if refspec == "" {
			return nil, fmt.Errorf("empty refspec after %q in %q: %w: %w", "@", raw, ErrParse, Error)
		}

		return &PackageReference{
			Name:       name,
			Constraint: Constraint{Kind: ExactRefspecKind, Refspec: refspec},
		}, nil
	}

	if idx := strings.Index(raw, "/"); idx >= 0 {
		name := raw[:idx]
		if err := validateName(name); err != nil {
			return nil, err
		}

		return &PackageReference{
			Name:       name,
			Constraint: Constraint{Kind: ExactRefspecKind, Refspec: raw},
		}, nil
	}

	if err := validateName(raw); err != nil {
		return nil, err
	}

	return &PackageReference{
		Name:       raw,
		Constraint: Constraint{Kind: LatestDefaultBranch},
	}, nil
}

// refWithRevision builds the Constraint for the explicit "name=revision"
// notation: a revision that parses as a SemVer requirement becomes a
// SemverKind constraint, otherwise it is taken as a literal refspec.
func refWithRevision(name, revision string) (*PackageReference, error) {
	if revision == "" {
		return nil, fmt.Errorf("empty revision after %q in %q=%q: %w: %w", "=", name, revision, ErrParse, Error)
	}

	if req, err := semverreq.Parse(revision); err == nil {
		return &PackageReference{
			Name:       name,
			Constraint: Constraint{Kind: SemverKind, Requirement: req},
		}, nil
	}

	return &PackageReference{
		Name:       name,
		Constraint: Constraint{Kind: ExactRefspecKind, Refspec: revision},
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty package name: %w: %w", ErrParse, Error)
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("invalid package name %q: must match %s: %w: %w", name, packageNamePattern.String(), ErrParse, Error)
	}

	return nil
}

// String renders the reference back to its canonical notation. Re-parsing
// the result yields an equivalent [PackageReference] (spec §8 round-trip
// property).
func (r *PackageReference) String() string {
	var body string
	switch r.Constraint.Kind {
	case LatestDefaultBranch:
		body = r.Name
	case SemverKind:
		body = r.Name + "=" + r.Constraint.Requirement.String()
	case ExactRefspecKind:
		body = r.Name + "@" + r.Constraint.Refspec
	}

	if r.Remote == nil {
		return body
	}

	return fmt.Sprintf("%s#%s", r.Remote.String(), body)
}
