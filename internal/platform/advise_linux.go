//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// AdviseSequential tells the kernel the file will be read front to back so
// it can read ahead aggressively. Errors are ignored; the hint is advisory.
//
//nolint:gosec // G115: fd values are small non-negative integers
func AdviseSequential(f *os.File) {
	//nolint:errcheck // fadvise is advisory; not supported on all filesystems
	unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
