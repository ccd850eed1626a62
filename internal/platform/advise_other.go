//go:build !linux

package platform

import "os"

// AdviseSequential is a no-op on non-Linux platforms (posix_fadvise is not
// exposed there).
func AdviseSequential(_ *os.File) {}
