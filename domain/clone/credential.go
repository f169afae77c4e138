package clone

// Credential references a private key file written for the duration of a
// run. The zero value means no credential.
type Credential struct {
	path string
}

// NewCredential creates a Credential for the key file at path.
func NewCredential(path string) Credential {
	return Credential{path: path}
}

// Path returns the key file path.
func (c Credential) Path() string { return c.path }

// IsEmpty returns true if no key file was written.
func (c Credential) IsEmpty() bool { return c.path == "" }
