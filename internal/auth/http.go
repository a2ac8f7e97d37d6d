// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// httpBasic builds an auth method from the HTTP Basic credentials
// embedded in the remote URL (spec §3: Remote, Credentials.UserPass).
func (p *Provider) httpBasic() (transport.AuthMethod, error) {
	if !p.hasBasic {
		return nil, fmt.Errorf("remote carries no embedded HTTP Basic credentials")
	}

	return &githttp.BasicAuth{Username: p.basicUser, Password: p.basicPass}, nil
}
