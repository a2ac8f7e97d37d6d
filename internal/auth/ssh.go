// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/kevinburke/ssh_config"
	xssh "github.com/xanzy/ssh-agent"
	"golang.org/x/crypto/ssh"

	"github.com/aerys/gpm/internal/gpmerr"
)

// sshFromEnv builds an auth method from the key named by GPM_SSH_KEY.
func (p *Provider) sshFromEnv() (transport.AuthMethod, error) {
	path := os.Getenv("GPM_SSH_KEY")
	if path == "" {
		return nil, fmt.Errorf("GPM_SSH_KEY is not set")
	}

	return p.signerFromFile(path)
}

// sshFromConfig resolves an IdentityFile for p.host from "~/.ssh/config",
// following the same Host-pattern matching rules ssh(1) uses.
func (p *Provider) sshFromConfig() (transport.AuthMethod, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(home, ".ssh", "config"))
	if err != nil {
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	identity, err := cfg.Get(p.host, "IdentityFile")
	if err != nil || identity == "" {
		return nil, fmt.Errorf("no IdentityFile configured for host %q", p.host)
	}

	return p.signerFromFile(expandHome(identity))
}

// sshDefaultKey falls back to the conventional "~/.ssh/id_rsa".
func (p *Provider) sshDefaultKey() (transport.AuthMethod, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return p.signerFromFile(filepath.Join(home, ".ssh", "id_rsa"))
}

// sshAgent delegates signing to a running ssh-agent, per spec §3's
// Credentials.Default variant.
func (p *Provider) sshAgent() (transport.AuthMethod, error) {
	agentClient, _, err := xssh.New()
	if err != nil {
		return nil, fmt.Errorf("no ssh-agent available: %w", err)
	}

	signers, err := agentClient.Signers()
	if err != nil || len(signers) == 0 {
		return nil, fmt.Errorf("ssh-agent has no usable keys: %w", err)
	}

	user := p.user
	if user == "" {
		user = "git"
	}

	return &gitssh.PublicKeysCallback{
		User: user,
		Callback: func() ([]ssh.Signer, error) {
			return signers, nil
		},
	}, nil
}

func (p *Provider) signerFromFile(path string) (transport.AuthMethod, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	user := p.user
	if user == "" {
		user = "git"
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err == nil {
		return &gitssh.PublicKeys{User: user, Signer: signer, HostKeyCallbackHelper: knownHostsHelper()}, nil
	}

	passphrase, ok := Passphrase(p.allowPassphrasePrompt)
	if !ok {
		return nil, fmt.Errorf("key %q is encrypted and no passphrase is available: %w: %w", path, gpmerr.ErrPassphraseRequired, gpmerr.Error)
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("could not decode encrypted key %q: %w", path, err)
	}

	return &gitssh.PublicKeys{User: user, Signer: signer, HostKeyCallbackHelper: knownHostsHelper()}, nil
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	return path
}
