package service

import "errors"

// ErrPanicked indicates a pipeline stage panicked. The destination is
// removed and the credential released before the panic is converted.
var ErrPanicked = errors.New("gitclone: clone panicked")
