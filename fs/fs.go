// Package fs resolves upload arguments to regular files.
package fs

import "errors"

// ErrNoMatch is returned when a pattern matches no regular file.
var ErrNoMatch = errors.New("no matching files")
