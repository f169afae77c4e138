package git

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// gitDateLayout matches git's default date format.
const gitDateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// formatFuller renders c the way git log --format=fuller does.
func formatFuller(c *object.Commit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	if len(c.ParentHashes) > 1 {
		parents := make([]string, 0, len(c.ParentHashes))
		for _, p := range c.ParentHashes {
			parents = append(parents, p.String()[:7])
		}
		fmt.Fprintf(&b, "Merge: %s\n", strings.Join(parents, " "))
	}
	fmt.Fprintf(&b, "Author:     %s <%s>\n", c.Author.Name, c.Author.Email)
	fmt.Fprintf(&b, "AuthorDate: %s\n", formatGitDate(c.Author.When))
	fmt.Fprintf(&b, "Commit:     %s <%s>\n", c.Committer.Name, c.Committer.Email)
	fmt.Fprintf(&b, "CommitDate: %s\n", formatGitDate(c.Committer.When))
	b.WriteString("\n")

	message := strings.Trim(strings.ReplaceAll(c.Message, "\r\n", "\n"), "\n")
	b.WriteString(indentLines(message, "    "))
	b.WriteString("\n")

	return b.String()
}

func formatGitDate(t time.Time) string {
	return t.Format(gitDateLayout)
}
