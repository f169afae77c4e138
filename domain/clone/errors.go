package clone

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrMissingRepositoryURL = errors.New("repository url is required")
	ErrMissingDestination   = errors.New("clone destination dir is required")
	ErrInvalidDepth         = errors.New("clone depth must not be negative")
)

// ErrAlreadyExists indicates the destination already holds a repository.
var ErrAlreadyExists = errors.New("destination already contains a .git directory")

// IsValidation returns true for errors caused by missing or malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingRepositoryURL) ||
		errors.Is(err, ErrMissingDestination) ||
		errors.Is(err, ErrInvalidDepth)
}

// Stage identifies a step of a run that can fail.
type Stage string

// Stage values.
const (
	StageDirectory Stage = "directory"
	StageInit      Stage = "init"
	StageRemote    Stage = "remote"
	StageFetch     Stage = "fetch"
	StageCheckout  Stage = "checkout"
	StageSubmodule Stage = "submodule"
	StageMetadata  Stage = "metadata"
	StageOutput    Stage = "output"
	StageReport    Stage = "report"
)

// Kind returns the error kind name for the stage.
func (s Stage) Kind() string {
	switch s {
	case StageDirectory:
		return "DirectoryCreateError"
	case StageInit:
		return "InitError"
	case StageRemote:
		return "RemoteAddError"
	case StageFetch:
		return "FetchError"
	case StageCheckout:
		return "CheckoutError"
	case StageSubmodule:
		return "SubmoduleError"
	case StageMetadata:
		return "MetadataError"
	case StageOutput:
		return "OutputError"
	case StageReport:
		return "ReportError"
	default:
		return "UnknownError"
	}
}

// StageError reports which stage of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

// NewStageError wraps err as a failure of stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage.Kind(), e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// FailedStage returns the stage a run failed at, if err carries one.
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
