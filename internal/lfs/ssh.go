// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package lfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	gossh "golang.org/x/crypto/ssh"

	"github.com/aerys/gpm/internal/gpmerr"
)

// HeaderAuth applies a fixed set of HTTP headers to every request. It
// adapts the {href, header} shape both the LFS batch API's download
// action and the git-lfs-authenticate SSH exchange return into the
// githttp.AuthMethod shape [Batch] expects.
type HeaderAuth map[string]string

func (h HeaderAuth) String() string { return "lfs-header-auth" }
func (h HeaderAuth) Name() string   { return "lfs-header-auth" }

// SetAuth implements githttp.AuthMethod.
func (h HeaderAuth) SetAuth(req *http.Request) {
	for k, v := range h {
		req.Header.Set(k, v)
	}
}

// AuthenticateSSH negotiates an LFS batch endpoint and bearer credentials
// for an ssh:// remote via the git-lfs-authenticate protocol (spec §4.4:
// Authentication Provider, "LFS auth"): it opens a session over the same
// SSH connection the Git transport authenticated with and runs
// "git-lfs-authenticate <path> download", whose JSON stdout names the
// HTTPS endpoint and headers to use for the LFS batch request, in place
// of the "${remote}.git/info/lfs" convention http(s) remotes use
// directly.
func AuthenticateSSH(ctx context.Context, remoteURL *url.URL, method transport.AuthMethod) (string, HeaderAuth, error) {
	sshAuth, ok := method.(gitssh.AuthMethod)
	if !ok {
		return "", nil, fmt.Errorf("credential for %s does not support SSH sessions: %w: %w", remoteURL.Host, gpmerr.ErrInternal, gpmerr.Error)
	}

	clientConfig, err := sshAuth.ClientConfig()
	if err != nil {
		return "", nil, fmt.Errorf("could not build ssh client config for %s: %w", remoteURL.Host, err)
	}

	addr := remoteURL.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}

	var dialer net.Dialer

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("could not dial %s: %w: %w", addr, gpmerr.ErrNetwork, gpmerr.Error)
	}

	sshConn, chans, reqs, err := gossh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()

		return "", nil, fmt.Errorf("ssh handshake with %s failed: %w: %w", addr, gpmerr.ErrAuthenticationFailed, gpmerr.Error)
	}

	client := gossh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", nil, fmt.Errorf("could not open ssh session to %s: %w", addr, err)
	}
	defer session.Close()

	repoPath := strings.TrimPrefix(remoteURL.Path, "/")

	var stdout bytes.Buffer
	session.Stdout = &stdout

	if err := session.Run("git-lfs-authenticate " + shellQuote(repoPath) + " download"); err != nil {
		return "", nil, fmt.Errorf("git-lfs-authenticate for %q failed: %w: %w: %w", repoPath, err, gpmerr.ErrRemoteNotFound, gpmerr.Error)
	}

	var resp struct {
		Href   string            `json:"href"`
		Header map[string]string `json:"header"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return "", nil, fmt.Errorf("could not parse git-lfs-authenticate response for %q: %w", repoPath, err)
	}

	if resp.Href == "" {
		return "", nil, fmt.Errorf("git-lfs-authenticate response for %q named no href: %w: %w", repoPath, gpmerr.ErrRemoteNotFound, gpmerr.Error)
	}

	return resp.Href, HeaderAuth(resp.Header), nil
}

// shellQuote wraps s in single quotes for safe inclusion in the
// git-lfs-authenticate command line, escaping any embedded single quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
