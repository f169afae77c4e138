// Package report writes the markdown summary of a clone.
package report

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/helixml/gitclone/domain/clone"
	"github.com/helixml/gitclone/domain/service"
)

const indent = "    "

var markdownTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"indent": indentBlock,
}).Parse(`# Commit Hash

{{ indent .Hash }}

# Commit Log

{{ indent .Log }}
`))

// MarkdownWriter renders the commit hash and log as markdown code blocks.
type MarkdownWriter struct {
	logger *slog.Logger
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(logger *slog.Logger) *MarkdownWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkdownWriter{logger: logger}
}

// Render returns the report for commit.
func (w *MarkdownWriter) Render(commit clone.Commit) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Hash string
		Log  string
	}{
		Hash: commit.Hash(),
		Log:  commit.Log(),
	}
	if err := markdownTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// Write renders the report for commit and replaces the file at path.
func (w *MarkdownWriter) Write(_ context.Context, path string, commit clone.Commit) error {
	content, err := w.Render(commit)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	w.logger.Info("report written", slog.String("path", path))
	return nil
}

// indentBlock prefixes every line of s with four spaces. A trailing
// newline does not produce an extra indented line.
func indentBlock(s string) string {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// Ensure MarkdownWriter implements service.ReportWriter.
var _ service.ReportWriter = (*MarkdownWriter)(nil)
