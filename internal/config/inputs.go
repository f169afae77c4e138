package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// InputsFile is the YAML document accepted by --inputs-file.
type InputsFile struct {
	RepoURL             string `yaml:"repo_url"`
	Branch              string `yaml:"branch"`
	Tag                 string `yaml:"tag"`
	CommitHash          string `yaml:"commit_hash"`
	PullRequest         string `yaml:"pull_request"`
	DestDir             string `yaml:"dest_dir"`
	CloneDepth          int    `yaml:"clone_depth"`
	FormattedOutputFile string `yaml:"formatted_output_file"`
}

// ToInputs converts InputsFile to Inputs.
func (f InputsFile) ToInputs() Inputs {
	return Inputs{
		RepositoryURL:  f.RepoURL,
		Branch:         f.Branch,
		Tag:            f.Tag,
		CommitHash:     f.CommitHash,
		PullRequestID:  f.PullRequest,
		DestinationDir: f.DestDir,
		CloneDepth:     f.CloneDepth,
		ReportPath:     f.FormattedOutputFile,
	}
}

// LoadInputsFile reads step inputs from a YAML file. Unknown keys are
// rejected. An empty path returns empty inputs.
func LoadInputsFile(path string) (Inputs, error) {
	if path == "" {
		return Inputs{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Inputs{}, fmt.Errorf("open inputs file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	var file InputsFile
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Inputs{}, fmt.Errorf("parse inputs file: %w", err)
	}
	return file.ToInputs(), nil
}
