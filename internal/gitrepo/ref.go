// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"

	"github.com/aerys/gpm/internal/semverreq"
)

// Ref is a resolved Git reference, retained alongside the metadata the
// resolution rule needed to pick it.
type Ref struct {
	*plumbing.Reference

	ShortName string
	IsTag     bool
}

// ResolveDefaultBranch picks "refs/heads/master", falling back to the
// remote's HEAD (a symbolic HEAD is followed to its target) when master
// is not advertised (spec §4.1: LatestDefaultBranch).
func ResolveDefaultBranch(allRefs []*plumbing.Reference) (*Ref, error) {
	for _, rf := range allRefs {
		if rf.Name() == plumbing.Master {
			return &Ref{Reference: rf, ShortName: rf.Name().Short()}, nil
		}
	}

	for _, rf := range allRefs {
		if rf.Name() != plumbing.HEAD {
			continue
		}
		if rf.Type() == plumbing.HashReference {
			return &Ref{Reference: rf, ShortName: "HEAD"}, nil
		}
		for _, target := range allRefs {
			if target.Name() == rf.Target() && target.Type() == plumbing.HashReference {
				return &Ref{Reference: plumbing.NewHashReference(plumbing.HEAD, target.Hash()), ShortName: "HEAD"}, nil
			}
		}
	}

	return nil, fmt.Errorf("could not determine the default branch: no HEAD or master advertised")
}

// ResolveExactRefspec tries a literal ref name against the candidate
// forms a user might reasonably type, in order: the literal full ref name,
// a bare tag, a prefixed tag ("${prefix}/${refspec}"), and a branch name
// (spec §4.1: ExactRefspec).
func ResolveExactRefspec(allRefs []*plumbing.Reference, prefix, refspec string) (*Ref, error) {
	candidates := []plumbing.ReferenceName{
		plumbing.ReferenceName(refspec),
		plumbing.NewTagReferenceName(refspec),
	}
	if prefix != "" {
		candidates = append(candidates, plumbing.NewTagReferenceName(prefix+"/"+refspec))
	}
	candidates = append(candidates, plumbing.NewBranchReferenceName(refspec))

	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(allRefs))
	for _, rf := range allRefs {
		byName[rf.Name()] = rf
	}

	for _, name := range candidates {
		if rf, ok := byName[name]; ok {
			return &Ref{Reference: rf, ShortName: rf.Name().Short(), IsTag: rf.Name().IsTag()}, nil
		}
	}

	return nil, fmt.Errorf("no tag, branch, or ref matched refspec %q", refspec)
}

// ResolveSemverTag enumerates the repository's tags and delegates
// selection of the highest one satisfying req to [semverreq.Select] (spec
// §4.1, §4.2: SemverRequirement).
func ResolveSemverTag(allRefs []*plumbing.Reference, prefix string, req *semverreq.Requirement) (*Ref, error) {
	byTag := make(map[string]*plumbing.Reference)
	tags := make([]string, 0, len(allRefs))
	for _, rf := range allRefs {
		if !rf.Name().IsTag() {
			continue
		}

		short := rf.Name().Short()
		tags = append(tags, short)
		byTag[short] = rf
	}

	selected, ok := semverreq.Select(req, tags, prefix)
	if !ok {
		return nil, fmt.Errorf("no tag satisfies requirement %q", req.String())
	}

	rf := byTag[selected]

	return &Ref{Reference: rf, ShortName: rf.Name().Short(), IsTag: true}, nil
}
