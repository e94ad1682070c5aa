//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package diagnostic

import "io"

// isTerminal is conservative on platforms without termios: no color.
func isTerminal(io.Writer) bool { return false }
