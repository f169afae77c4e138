package clone

// Output keys published for a checked-out commit.
const (
	OutputCommitHash           = "GIT_CLONE_COMMIT_HASH"
	OutputCommitMessageSubject = "GIT_CLONE_COMMIT_MESSAGE_SUBJECT"
	OutputCommitMessageBody    = "GIT_CLONE_COMMIT_MESSAGE_BODY"
	OutputCommitAuthorName     = "GIT_CLONE_COMMIT_AUTHOR_NAME"
	OutputCommitAuthorEmail    = "GIT_CLONE_COMMIT_AUTHOR_EMAIL"
	OutputCommitCommitterName  = "GIT_CLONE_COMMIT_COMMITER_NAME"
	OutputCommitCommitterEmail = "GIT_CLONE_COMMIT_COMMITER_EMAIL"
)

// Output is one named value exported to the calling pipeline.
type Output struct {
	Key   string
	Value string
}

// Commit holds the metadata of the checked-out commit.
type Commit struct {
	hash      string
	subject   string
	body      string
	author    Author
	committer Author
	log       string
}

// NewCommit creates a new Commit.
func NewCommit(hash, subject, body string, author, committer Author) Commit {
	return Commit{
		hash:      hash,
		subject:   subject,
		body:      body,
		author:    author,
		committer: committer,
	}
}

// Hash returns the full commit hash.
func (c Commit) Hash() string { return c.hash }

// ShortHash returns the first 7 characters of the hash.
func (c Commit) ShortHash() string {
	if len(c.hash) > 7 {
		return c.hash[:7]
	}
	return c.hash
}

// Subject returns the first line of the commit message.
func (c Commit) Subject() string { return c.subject }

// Body returns the commit message without its subject.
func (c Commit) Body() string { return c.body }

// Author returns the commit author.
func (c Commit) Author() Author { return c.author }

// Committer returns the committer.
func (c Commit) Committer() Author { return c.committer }

// Log returns the fuller-format log entry captured for reporting.
func (c Commit) Log() string { return c.log }

// WithLog returns a copy of the commit carrying the given log text.
func (c Commit) WithLog(log string) Commit {
	c.log = log
	return c
}

// IsEmpty returns true if no hash is set.
func (c Commit) IsEmpty() bool { return c.hash == "" }

// Outputs returns the seven exported values in a fixed order.
func (c Commit) Outputs() []Output {
	return []Output{
		{Key: OutputCommitHash, Value: c.hash},
		{Key: OutputCommitMessageSubject, Value: c.subject},
		{Key: OutputCommitMessageBody, Value: c.body},
		{Key: OutputCommitAuthorName, Value: c.author.Name()},
		{Key: OutputCommitAuthorEmail, Value: c.author.Email()},
		{Key: OutputCommitCommitterName, Value: c.committer.Name()},
		{Key: OutputCommitCommitterEmail, Value: c.committer.Email()},
	}
}
