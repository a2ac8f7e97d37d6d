// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package gitrepo wraps go-git to resolve a single reference against a
// remote and read one blob out of it, without ever materializing a full
// worktree. It backs both the Source Cache (disk-backed, osfs) and
// one-shot resolutions against a remote that is not locally cached
// (in-memory, memfs).
package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

// Repository is a handle on a single remote, lazily backed by either an
// in-memory or an on-disk object store.
type Repository struct {
	*Options

	repoURL *url.URL
	store   func() storage.Storer
	fs      func() billy.Filesystem

	repo   *gogit.Repository
	remote *gogit.Remote
}

// NewRepo initializes a handle for repoURL. No network or disk I/O happens
// until [Repository.ListRefs] or [Repository.FetchRef] is called.
func NewRepo(repoURL *url.URL, opts *Options) *Repository {
	if opts == nil {
		opts = &Options{}
	}

	if opts.IsFSBacked && opts.Dir != "" {
		root := osfs.New(opts.Dir, osfs.WithBoundOS())
		lru := cache.NewObjectLRUDefault()

		return &Repository{
			Options: opts,
			repoURL: repoURL,
			store:   func() storage.Storer { return filesystem.NewStorage(root, lru) },
			fs:      func() billy.Filesystem { return root },
		}
	}

	return &Repository{
		Options: opts,
		repoURL: repoURL,
		store:   func() storage.Storer { return memory.NewStorage() },
		fs:      memfs.New,
	}
}

// ListRefs lists every branch, tag, and HEAD advertised by the remote,
// without fetching any objects.
func (r *Repository) ListRefs(ctx context.Context) ([]*plumbing.Reference, error) {
	_, remote, err := r.init()
	if err != nil {
		return nil, fmt.Errorf("could not initialize remote: %w", err)
	}

	if r.Debug {
		if caps, err := dumpCapabilities(ctx, r.repoURL.String(), r.Auth); err == nil {
			slog.Debug("remote protocol capabilities", "remote", r.repoURL.String(), "capabilities", caps)
		}
	}

	var refs []*plumbing.Reference
	err = withRetry(ctx, r.retries(), "list-refs", func() error {
		var listErr error
		refs, listErr = remote.ListContext(ctx, &gogit.ListOptions{Auth: r.Auth})
		return listErr
	})
	if err != nil {
		return nil, fmt.Errorf("could not list remote refs: %w", err)
	}

	return refs, nil
}

// FetchRef fetches the object graph reachable from ref's hash, without
// touching the worktree.
func (r *Repository) FetchRef(ctx context.Context, ref *Ref) error {
	_, remote, err := r.init()
	if err != nil {
		return fmt.Errorf("could not initialize remote: %w", err)
	}

	hash := ref.Hash()
	refSpec := config.RefSpec(fmt.Sprintf("+%[1]v:%[1]v", hash))

	err = withRetry(ctx, r.retries(), "fetch-ref", func() error {
		fetchErr := remote.FetchContext(ctx, &gogit.FetchOptions{
			RefSpecs: []config.RefSpec{refSpec},
			Tags:     gogit.NoTags,
			Force:    true,
			Auth:     r.Auth,
		})
		if fetchErr == gogit.NoErrAlreadyUpToDate {
			return nil
		}

		return fetchErr
	})
	if err != nil {
		return fmt.Errorf("could not fetch ref %s (%s): %w", ref.ShortName, hash, err)
	}

	return nil
}

// FetchAll mirrors every branch and tag advertised by the remote into the
// local object store, pruning refs that no longer exist upstream. This
// backs the `update` operation, which refreshes a cache entry in full
// rather than a single resolved ref (spec §3: CacheEntry lifecycle,
// "fetch --all, reset --hard").
func (r *Repository) FetchAll(ctx context.Context) error {
	_, remote, err := r.init()
	if err != nil {
		return fmt.Errorf("could not initialize remote: %w", err)
	}

	refSpecs := []config.RefSpec{
		"+refs/heads/*:refs/heads/*",
		"+refs/tags/*:refs/tags/*",
	}

	err = withRetry(ctx, r.retries(), "fetch-all", func() error {
		fetchErr := remote.FetchContext(ctx, &gogit.FetchOptions{
			RefSpecs: refSpecs,
			Tags:     gogit.NoTags,
			Force:    true,
			Prune:    true,
			Auth:     r.Auth,
		})
		if fetchErr == gogit.NoErrAlreadyUpToDate {
			return nil
		}

		return fetchErr
	})
	if err != nil {
		return fmt.Errorf("could not fetch all refs: %w", err)
	}

	return nil
}

// retries returns the configured retry budget, treating an unset or
// non-positive value as a single attempt.
func (r *Repository) retries() int {
	if r.Retries <= 0 {
		return 1
	}

	return r.Retries
}

// ReadBlob reads the content of path as it exists in the tree of the
// commit ref points to. The object must already have been fetched via
// FetchRef.
func (r *Repository) ReadBlob(ref *Ref, path string) ([]byte, error) {
	repo, _, err := r.init()
	if err != nil {
		return nil, fmt.Errorf("could not initialize remote: %w", err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("could not load commit %s: %w", ref.Hash(), err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("could not load tree for commit %s: %w", ref.Hash(), err)
	}

	entry, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("could not find %q in tree %s: %w", path, ref.Hash(), err)
	}

	content, err := entry.Contents()
	if err != nil {
		return nil, fmt.Errorf("could not read blob %q: %w", path, err)
	}

	return []byte(content), nil
}

// init opens the repository, creating it (and its "origin" remote) on
// first use. Repeated calls reuse the same [gogit.Repository] so that an
// on-disk cache entry already populated by a prior run is reopened rather
// than re-initialized.
func (r *Repository) init() (*gogit.Repository, *gogit.Remote, error) {
	if r.repo != nil {
		return r.repo, r.remote, nil
	}

	if r.repoURL == nil || r.repoURL.String() == "" {
		return nil, nil, fmt.Errorf("cannot initialize a repository with an empty URL")
	}

	storer, fs := r.store(), r.fs()

	repo, err := gogit.Open(storer, fs)
	if err != nil {
		if err != gogit.ErrRepositoryNotExists {
			return nil, nil, fmt.Errorf("could not open repository: %w", err)
		}

		repo, err = gogit.Init(storer, fs)
		if err != nil {
			return nil, nil, fmt.Errorf("could not initialize repository: %w", err)
		}
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		remote, err = repo.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{r.repoURL.String()},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not create remote: %w", err)
		}
	}

	r.repo, r.remote = repo, remote

	return repo, remote, nil
}
