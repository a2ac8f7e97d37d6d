// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/aerys/gpm/internal/auth"
	"github.com/aerys/gpm/internal/config"
	"github.com/aerys/gpm/internal/gitcache"
	"github.com/aerys/gpm/internal/gitrepo"
	"github.com/aerys/gpm/internal/gpmerr"
	"github.com/aerys/gpm/internal/lfs"
)

// archiveExtensions are tried in order against a resolved commit's tree
// (spec §4.6: Package Resolver).
var archiveExtensions = []string{".tar.gz", ".tgz"}

// Resolver implements the Package Resolver component: given a
// [PackageReference], it walks the candidate remotes in order and
// returns the first matching [ArchiveLocation].
type Resolver struct {
	sources *SourcesList
	cache   *gitcache.Cache
	cfg     *config.Config
	opts    resolveOptions
}

// NewResolver builds a Resolver. sources may be nil when every reference
// the caller intends to resolve is URI-bound to an explicit remote.
func NewResolver(cfg *config.Config, sources *SourcesList, opts ...ResolveOption) *Resolver {
	o := optionsWithDefaults(opts)
	if o.cacheDir == "" {
		o.cacheDir = cfg.CacheDir
	}
	if o.lockTimeout == 0 {
		o.lockTimeout = cfg.LockTimeout
	}

	return &Resolver{
		sources: sources,
		cache:   gitcache.New(o.cacheDir, o.lockTimeout),
		cfg:     cfg,
		opts:    o,
	}
}

// Resolve determines which remote, commit, and archive path satisfy ref,
// trying each candidate remote in order and returning the first match
// (spec §4.6).
func (r *Resolver) Resolve(ctx context.Context, ref *PackageReference) (*ArchiveLocation, error) {
	remotes, err := r.candidateRemotes(ref)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, remote := range remotes {
		loc, err := r.resolveAgainst(ctx, remote, ref)
		if err == nil {
			return loc, nil
		}

		slog.Debug("remote did not satisfy reference", "module", "resolver", "remote", remote.String(), "name", ref.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", remote.String(), err))
	}

	if len(remotes) > 1 {
		slog.Warn("reference resolved against no candidate remote", "module", "resolver", "name", ref.Name, "candidates", len(remotes))
	}

	return nil, fmt.Errorf("no candidate remote satisfied %q: %w: %w: %w", ref.String(), errors.Join(errs...), gpmerr.ErrPackageNotFound, gpmerr.Error)
}

func (r *Resolver) candidateRemotes(ref *PackageReference) ([]*Remote, error) {
	if ref.Remote != nil {
		return []*Remote{ref.Remote}, nil
	}

	if r.sources == nil || len(r.sources.Remotes) == 0 {
		return nil, fmt.Errorf("reference %q names no remote and no sources list is configured: %w: %w", ref.String(), gpmerr.ErrSourcesListMissing, gpmerr.Error)
	}

	return r.sources.Remotes, nil
}

func (r *Resolver) resolveAgainst(ctx context.Context, remote *Remote, ref *PackageReference) (*ArchiveLocation, error) {
	basicUser, basicPass, hasBasic := remote.BasicAuth()
	provider := auth.New(remote.Transport, remote.URL().Host, basicUser, basicPass, hasBasic, r.cfg.AllowPassphrasePrompt)

	repo, entry, allRefs, method, err := r.listRefsWithAuth(ctx, remote, provider)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		defer entry.Unlock()
	}

	resolved, err := resolveConstraint(allRefs, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, gpmerr.ErrRefNotFound)
	}

	if err := repo.FetchRef(ctx, resolved); err != nil {
		return nil, fmt.Errorf("could not fetch resolved ref: %w: %w", err, gpmerr.ErrNetwork)
	}

	if entry != nil {
		meta := gitcache.Metadata{RemoteURL: remote.String(), LastUpdate: time.Now()}
		if err := entry.WriteMetadata(meta); err != nil {
			slog.Warn("could not persist cache metadata", "module", "resolver", "remote", remote.String(), "error", err)
		}
	}

	for _, ext := range archiveExtensions {
		path := ref.Name + "/" + ref.Name + ext
		blob, err := repo.ReadBlob(resolved, path)
		if err != nil {
			continue
		}

		loc := &ArchiveLocation{
			Remote:     remote,
			CommitHash: resolved.Hash().String(),
			Path:       path,
			Auth:       method,
		}

		if lfs.LooksLikePointer(blob) {
			pointer, err := lfs.ParsePointer(blob)
			if err != nil {
				return nil, err
			}

			loc.Pointer = &pointer
		} else {
			loc.Blob = blob
		}

		return loc, nil
	}

	return nil, fmt.Errorf("no archive named %q found at %s: %w: %w", ref.Name, resolved.Hash(), gpmerr.ErrPackageNotFound, gpmerr.Error)
}

func resolveConstraint(allRefs []*plumbing.Reference, ref *PackageReference) (*gitrepo.Ref, error) {
	switch ref.Constraint.Kind {
	case LatestDefaultBranch:
		return gitrepo.ResolveDefaultBranch(allRefs)
	case ExactRefspecKind:
		return gitrepo.ResolveExactRefspec(allRefs, ref.Name, ref.Constraint.Refspec)
	case SemverKind:
		return gitrepo.ResolveSemverTag(allRefs, ref.Name, ref.Constraint.Requirement)
	default:
		return nil, fmt.Errorf("unknown constraint kind %v", ref.Constraint.Kind)
	}
}

// listRefsWithAuth opens (and, unless noCache is set, locks) the remote's
// cache entry, then tries successive credentials from provider until one
// of them is accepted by the remote or every candidate is exhausted. On
// error, any lock taken is released before returning; on success, the
// caller owns the returned entry's lock and must release it. The
// credential that was accepted is returned alongside the repository so a
// later LFS-over-SSH exchange (spec §4.4) can reuse the same session
// rather than re-resolving it.
func (r *Resolver) listRefsWithAuth(ctx context.Context, remote *Remote, provider *auth.Provider) (*gitrepo.Repository, *gitcache.Entry, []*plumbing.Reference, transport.AuthMethod, error) {
	var entry *gitcache.Entry
	gitOpts := &gitrepo.Options{Debug: r.opts.debug, Retries: r.cfg.GitRetries}

	if !r.opts.noCache {
		var err error
		entry, err = r.cache.Entry(remote.String())
		if err != nil {
			return nil, nil, nil, nil, err
		}

		if err := entry.Lock(); err != nil {
			return nil, nil, nil, nil, err
		}

		gitOpts.IsFSBacked = true
		gitOpts.Dir = entry.CloneDir()
	}

	for {
		method, ok, err := provider.Next()
		if err != nil {
			if entry != nil {
				entry.Unlock()
			}

			return nil, nil, nil, nil, err
		}
		if !ok {
			if entry != nil {
				entry.Unlock()
			}

			return nil, nil, nil, nil, fmt.Errorf("no credentials were accepted for %s: %w: %w", remote.String(), gpmerr.ErrAuthenticationFailed, gpmerr.Error)
		}

		gitOpts.Auth = method
		repo := gitrepo.NewRepo(remote.URL(), gitOpts)

		refs, err := repo.ListRefs(ctx)
		if err == nil {
			return repo, entry, refs, method, nil
		}

		if !gitrepo.IsAuthError(err) {
			if entry != nil {
				entry.Unlock()
			}

			return nil, nil, nil, nil, fmt.Errorf("%w: %w", err, gpmerr.ErrNetwork)
		}

		slog.Debug("credential rejected, trying next candidate", "module", "resolver", "remote", remote.String())
	}
}
