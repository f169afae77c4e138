package service

import (
	"context"

	"github.com/helixml/gitclone/domain/clone"
)

// Executor performs the clone stages inside the destination directory.
// On any stage failure the destination is removed before returning.
type Executor interface {
	Execute(ctx context.Context, req clone.Request, target clone.Target, cred clone.Credential) (clone.Outcome, error)
}

// Provisioner persists private key material for the duration of a run.
type Provisioner interface {
	// Provision writes key material and returns a handle to it. An empty
	// key returns the zero Credential and writes nothing.
	Provision(ctx context.Context, key string) (clone.Credential, error)

	// Release removes the key file. Releasing the zero Credential is a no-op.
	Release(ctx context.Context, cred clone.Credential) error
}

// Exporter publishes named values to the calling pipeline.
type Exporter interface {
	Export(ctx context.Context, outputs []clone.Output) error
}

// ReportWriter writes the formatted commit report.
type ReportWriter interface {
	Write(ctx context.Context, path string, commit clone.Commit) error
}
