package git

import (
	"fmt"
	"strings"
)

// headCommitFormat is the git log format string for parsing the head commit.
// Fields are separated by \x00.
const headCommitFormat = "--format=%H%x00%s%x00%b%x00%an%x00%ae%x00%cn%x00%ce"

const headCommitFields = 7

// parseHeadCommit parses the output of git log -1 with headCommitFormat.
func parseHeadCommit(stdout string) (CommitInfo, error) {
	fields := strings.SplitN(stdout, "\x00", headCommitFields)
	if len(fields) < headCommitFields {
		return CommitInfo{}, fmt.Errorf("unexpected commit format: %d fields", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimRight(fields[i], "\r\n")
	}

	sha := strings.TrimSpace(fields[0])
	if sha == "" {
		return CommitInfo{}, fmt.Errorf("empty commit hash")
	}

	return CommitInfo{
		SHA:            sha,
		Subject:        fields[1],
		Body:           fields[2],
		AuthorName:     fields[3],
		AuthorEmail:    fields[4],
		CommitterName:  fields[5],
		CommitterEmail: fields[6],
	}, nil
}

// splitMessage splits a raw commit message into git's %s and %b parts.
// The subject is the first paragraph with its lines joined by spaces.
func splitMessage(message string) (subject, body string) {
	message = strings.TrimLeft(strings.ReplaceAll(message, "\r\n", "\n"), "\n")
	title, rest, _ := strings.Cut(message, "\n\n")

	lines := strings.Split(strings.TrimSpace(title), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	subject = strings.Join(lines, " ")
	body = strings.TrimRight(strings.TrimLeft(rest, "\n"), "\n")
	return subject, body
}

// indentLines prefixes every line of s with indent.
func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}
