//go:build linux

package diagnostic

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TCGETS
