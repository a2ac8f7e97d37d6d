// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package gpm

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/aerys/gpm/internal/archive"
	"github.com/aerys/gpm/internal/config"
	"github.com/aerys/gpm/internal/gpmerr"
	"github.com/aerys/gpm/internal/lfs"
)

// Installer implements the install and download operations (spec §4.7):
// it resolves a [PackageReference] to an [ArchiveLocation], materializes
// the archive bytes (fetching them from Git LFS when the blob is a
// pointer), then either extracts or writes the archive verbatim.
type Installer struct {
	resolver *Resolver
	client   *http.Client
	cfg      *config.Config
}

// NewInstaller builds an Installer backed by resolver, using cfg's LFS
// retry budget for every download.
func NewInstaller(cfg *config.Config, resolver *Resolver) *Installer {
	return &Installer{resolver: resolver, client: http.DefaultClient, cfg: cfg}
}

// NewInstallerFromConfig is a convenience constructor that builds both
// the underlying [Resolver] and the Installer in one call.
func NewInstallerFromConfig(cfg *config.Config, sources *SourcesList, opts ...InstallOption) *Installer {
	o := optionsWithDefaults(opts)

	return NewInstaller(cfg, NewResolver(cfg, sources, ResolveWithCacheDir(o.cacheDir), ResolveWithLockTimeout(o.lockTimeout), ResolveWithDebug(o.debug)))
}

// Install resolves ref and unpacks its archive into prefix.
func (i *Installer) Install(ctx context.Context, ref *PackageReference, prefix string) error {
	content, err := i.materialize(ctx, ref)
	if err != nil {
		return err
	}

	if err := archive.Extract(bytes.NewReader(content), prefix); err != nil {
		return fmt.Errorf("could not extract %q into %q: %w", ref.String(), prefix, err)
	}

	return nil
}

// Download resolves ref and writes its archive verbatim into destDir,
// without extracting it.
func (i *Installer) Download(ctx context.Context, ref *PackageReference, destDir string) (string, error) {
	content, err := i.materialize(ctx, ref)
	if err != nil {
		return "", err
	}

	dest, err := archive.WriteVerbatim(bytes.NewReader(content), destDir, ref.Name)
	if err != nil {
		return "", fmt.Errorf("could not write %q into %q: %w", ref.String(), destDir, err)
	}

	return dest, nil
}

// materialize resolves ref and returns the archive's raw bytes, fetching
// them from Git LFS first if the resolved blob turned out to be a
// pointer rather than the archive itself.
func (i *Installer) materialize(ctx context.Context, ref *PackageReference) ([]byte, error) {
	loc, err := i.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if loc.Pointer == nil {
		return loc.Blob, nil
	}

	return i.fetchLfsObject(ctx, loc)
}

// fetchLfsObject downloads the object behind an LFS pointer into a
// temporary directory inside the cache root, verifies it, and returns its
// contents (spec §4.5: LFS Client, §4.7: Installer).
func (i *Installer) fetchLfsObject(ctx context.Context, loc *ArchiveLocation) ([]byte, error) {
	endpoint, auth, err := i.lfsEndpointAndAuth(ctx, loc)
	if err != nil {
		return nil, err
	}

	dl, err := lfs.Batch(ctx, i.client, endpoint, *loc.Pointer, auth)
	if err != nil {
		return nil, err
	}

	cacheDir := i.resolver.cache.Dir
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache directory %q: %w", cacheDir, err)
	}

	tmpDir, err := os.MkdirTemp(cacheDir, ".gpm-lfs-*")
	if err != nil {
		return nil, fmt.Errorf("could not create temporary LFS download directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	destPath := filepath.Join(tmpDir, loc.Pointer.OID)
	if err := lfs.Fetch(ctx, i.client, dl, *loc.Pointer, destPath, i.cfg.LfsRetries); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(destPath)
	if err != nil {
		return nil, fmt.Errorf("could not read downloaded LFS object: %w: %w", err, gpmerr.ErrInternal)
	}

	return content, nil
}

// lfsEndpointAndAuth resolves the LFS batch API endpoint and the
// credentials to reach it, branching on the remote's transport (spec
// §4.4: "LFS auth"). ssh:// remotes negotiate both via the
// git-lfs-authenticate protocol over the SSH session that already
// authenticated the Git transport; http(s) remotes reuse the
// "${remote}.git/info/lfs" convention and the embedded HTTP Basic
// credentials directly.
func (i *Installer) lfsEndpointAndAuth(ctx context.Context, loc *ArchiveLocation) (string, githttp.AuthMethod, error) {
	if loc.Remote.Transport == "ssh" {
		href, headers, err := lfs.AuthenticateSSH(ctx, loc.Remote.URL(), loc.Auth)
		if err != nil {
			return "", nil, err
		}

		return href, headers, nil
	}

	return lfsEndpoint(loc.Remote), lfsAuth(loc.Remote), nil
}

// lfsEndpoint derives the LFS batch API root from a remote's URL, by the
// convention both GitHub and GitLab follow: "${remote}/info/lfs"
// (stripping any trailing ".git" first, then re-appending it, since some
// hosts require it and others tolerate either form equally).
func lfsEndpoint(remote *Remote) string {
	base := strings.TrimSuffix(remote.String(), "/")
	base = strings.TrimSuffix(base, ".git")

	return base + ".git/info/lfs"
}

// lfsAuth mirrors the embedded HTTP Basic credentials carried by remote,
// if any, into the shape the LFS Client expects.
func lfsAuth(remote *Remote) githttp.AuthMethod {
	user, pass, ok := remote.BasicAuth()
	if !ok {
		return nil
	}

	return &githttp.BasicAuth{Username: user, Password: pass}
}
