//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package cli

func isTerminal(fd uintptr) bool {
	return false
}
