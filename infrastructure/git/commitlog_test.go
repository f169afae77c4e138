package git

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadCommit(t *testing.T) {
	stdout := "0123456789abcdef\x00Fix bug\x00Longer\nbody\n\x00Alice\x00alice@example.com\x00Bob\x00bob@example.com\n"

	got, err := parseHeadCommit(stdout)
	require.NoError(t, err)

	want := CommitInfo{
		SHA:            "0123456789abcdef",
		Subject:        "Fix bug",
		Body:           "Longer\nbody",
		AuthorName:     "Alice",
		AuthorEmail:    "alice@example.com",
		CommitterName:  "Bob",
		CommitterEmail: "bob@example.com",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseHeadCommit() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeadCommit_Invalid(t *testing.T) {
	_, err := parseHeadCommit("only\x00three\x00fields")
	assert.Error(t, err)

	_, err = parseHeadCommit("\x00s\x00b\x00an\x00ae\x00cn\x00ce")
	assert.Error(t, err)
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		message string
		subject string
		body    string
	}{
		{"Subject only\n", "Subject only", ""},
		{"Subject\n\nBody line 1\nBody line 2\n", "Subject", "Body line 1\nBody line 2"},
		{"Wrapped\nsubject\n\nBody", "Wrapped subject", "Body"},
		{"Subject\r\n\r\nBody\r\n", "Subject", "Body"},
		{"", "", ""},
	}

	for _, tt := range tests {
		subject, body := splitMessage(tt.message)
		assert.Equal(t, tt.subject, subject, "subject of %q", tt.message)
		assert.Equal(t, tt.body, body, "body of %q", tt.message)
	}
}

func TestFormatFuller(t *testing.T) {
	when := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.FixedZone("", 2*60*60))
	commit := &object.Commit{
		Hash:      plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
		Author:    object.Signature{Name: "Alice", Email: "alice@example.com", When: when},
		Committer: object.Signature{Name: "Bob", Email: "bob@example.com", When: when.Add(time.Hour)},
		Message:   "Subject\n\nBody\n",
	}

	want := "commit 0123456789abcdef0123456789abcdef01234567\n" +
		"Author:     Alice <alice@example.com>\n" +
		"AuthorDate: Tue Mar 5 14:07:09 2024 +0200\n" +
		"Commit:     Bob <bob@example.com>\n" +
		"CommitDate: Tue Mar 5 15:07:09 2024 +0200\n" +
		"\n" +
		"    Subject\n" +
		"    \n" +
		"    Body\n"

	assert.Equal(t, want, formatFuller(commit))
}

func TestFormatFuller_Merge(t *testing.T) {
	commit := &object.Commit{
		Hash: plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
		ParentHashes: []plumbing.Hash{
			plumbing.NewHash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
			plumbing.NewHash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		},
		Message: "Merge",
	}

	assert.Contains(t, formatFuller(commit), "Merge: aaaaaaa bbbbbbb\n")
}
