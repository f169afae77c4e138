package log

import (
	"io"
	"strings"
)

// Redacted replaces secret text in log output.
const Redacted = "[redacted]"

// redactingWriter masks secrets before they reach the underlying writer.
type redactingWriter struct {
	w io.Writer
	r *strings.Replacer
}

// NewRedactingWriter wraps w so that every non-blank line of each secret is
// replaced with Redacted. Multi-line secrets such as PEM keys are masked
// line by line, which also covers output that escapes newlines. With no
// secrets w is returned unchanged.
func NewRedactingWriter(w io.Writer, secrets []string) io.Writer {
	var oldnew []string
	for _, secret := range secrets {
		for _, line := range strings.Split(secret, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			oldnew = append(oldnew, line, Redacted)
		}
	}
	if len(oldnew) == 0 {
		return w
	}
	return &redactingWriter{
		w: w,
		r: strings.NewReplacer(oldnew...),
	}
}

// Write writes p to the base writer with secrets masked. It reports len(p)
// so callers are not confused by the length change.
func (r *redactingWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(r.w, r.r.Replace(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}
