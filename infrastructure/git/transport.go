package git

import (
	"strings"

	"github.com/helixml/gitclone/domain/clone"
)

// sshOptions keep ssh from prompting for host keys or passphrases.
const sshOptions = "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null -o BatchMode=yes"

// Transport carries the credential override for network operations.
type Transport struct {
	keyPath string
}

// NewTransport creates a Transport for cred. The zero Credential yields an
// unauthenticated transport that relies on ambient credentials.
func NewTransport(cred clone.Credential) Transport {
	return Transport{keyPath: cred.Path()}
}

// KeyPath returns the private key path, empty when unauthenticated.
func (t Transport) KeyPath() string { return t.keyPath }

// IsAuthenticated returns true if a private key is configured.
func (t Transport) IsAuthenticated() bool { return t.keyPath != "" }

// SSHCommand returns the command git uses to open ssh connections.
func (t Transport) SSHCommand() string {
	if t.keyPath == "" {
		return "ssh " + sshOptions
	}
	return "ssh " + sshOptions + " -o IdentitiesOnly=yes -i " + shellQuote(t.keyPath)
}

// Env returns the environment overrides for git subprocesses. Credential
// prompts are disabled so a misconfigured run fails instead of hanging.
func (t Transport) Env() []string {
	return []string{
		"GIT_ASKPASS=echo",
		"GIT_TERMINAL_PROMPT=0",
		"GIT_SSH_COMMAND=" + t.SSHCommand(),
	}
}

// shellQuote quotes s for the shell git runs GIT_SSH_COMMAND through.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
