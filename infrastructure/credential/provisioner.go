// Package credential persists SSH key material for the duration of a run.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

// DefaultKeyName is the file name of the key under <home>/.ssh.
const DefaultKeyName = "gitclone"

const (
	dirMode  os.FileMode = 0o700
	fileMode os.FileMode = 0o600
)

// FileProvisioner writes private keys to <home>/.ssh/<name>.
// Implements domain/service.Provisioner interface.
type FileProvisioner struct {
	path   string
	logger *slog.Logger
}

// NewFileProvisioner creates a FileProvisioner writing below homeDir. An
// empty homeDir uses the current user's home directory and an empty name
// uses DefaultKeyName.
func NewFileProvisioner(homeDir, name string, logger *slog.Logger) (*FileProvisioner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		homeDir = home
	}
	if name == "" {
		name = DefaultKeyName
	}
	return &FileProvisioner{
		path:   filepath.Join(homeDir, ".ssh", name),
		logger: logger,
	}, nil
}

// Path returns the key file location.
func (p *FileProvisioner) Path() string {
	return p.path
}

// Provision writes key verbatim with owner-only permissions.
func (p *FileProvisioner) Provision(_ context.Context, key string) (clone.Credential, error) {
	if key == "" {
		return clone.Credential{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(p.path), dirMode); err != nil {
		return clone.Credential{}, fmt.Errorf("create ssh directory: %w", err)
	}
	if err := p.write(key); err != nil {
		_ = os.Remove(p.path)
		return clone.Credential{}, err
	}

	p.logger.Debug("ssh key written", slog.String("path", p.path))
	return clone.NewCredential(p.path), nil
}

// write creates the key file with owner-only permissions. A stale file is
// removed first so the key never lands in a file with a wider mode.
func (p *FileProvisioner) write(key string) error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale ssh key: %w", err)
	}

	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return fmt.Errorf("create ssh key: %w", err)
	}
	if _, err := f.WriteString(key); err != nil {
		_ = f.Close()
		return fmt.Errorf("write ssh key: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write ssh key: %w", err)
	}
	// The umask may have narrowed the requested mode.
	if err := os.Chmod(p.path, fileMode); err != nil {
		return fmt.Errorf("restrict ssh key permissions: %w", err)
	}
	return nil
}

// Release removes the key file. A file that is already gone is not an error.
func (p *FileProvisioner) Release(_ context.Context, cred clone.Credential) error {
	if cred.IsEmpty() {
		return nil
	}
	if err := os.Remove(cred.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove ssh key: %w", err)
	}
	p.logger.Debug("ssh key removed", slog.String("path", cred.Path()))
	return nil
}

// Ensure FileProvisioner implements service.Provisioner.
var _ service.Provisioner = (*FileProvisioner)(nil)
