//go:build linux

// Package device opens the device nodes of the Linux adjustment methods.
package device

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"github.com/BeatGlow/gamma"
)

// Count returns the number of consecutively numbered device nodes matching
// pattern, starting at zero.
func Count(pattern string) int {
	var n int
	for ; ; n++ {
		if _, err := os.Stat(fmt.Sprintf(pattern, n)); err != nil {
			return n
		}
	}
}

// Open opens a device node for reading and writing.
func Open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, OpenError(path, err)
	}
	return f, nil
}

// OpenError translates a failure to open a device node.
func OpenError(path string, err error) error {
	switch {
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		groupErr := &gamma.GroupError{Path: path, GID: -1}
		if st, statErr := os.Stat(path); statErr == nil {
			if sys, ok := st.Sys().(*syscall.Stat_t); ok {
				groupErr.GID = int(sys.Gid)
				if g, err := user.LookupGroupId(strconv.Itoa(int(sys.Gid))); err == nil {
					groupErr.Group = g.Name
				}
			}
		}
		return groupErr
	case errors.Is(err, syscall.ENOENT):
		return fmt.Errorf("%w: %s", gamma.ErrNoSuchPartition, path)
	case errors.Is(err, syscall.ENODEV), errors.Is(err, syscall.ENXIO):
		return fmt.Errorf("%w: %s", gamma.ErrGraphicsCardRemoved, path)
	default:
		return fmt.Errorf("%w: %w", gamma.ErrOpenFailed, &gamma.OSError{Op: "open " + path, Err: err})
	}
}

// IoctlError wraps a failed ioctl into the library error code, except when
// the device went away.
func IoctlError(code gamma.Error, op string, err error) error {
	if errors.Is(err, syscall.ENODEV) {
		return gamma.ErrGraphicsCardRemoved
	}
	return fmt.Errorf("%w: %w", code, &gamma.OSError{Op: op, Err: err})
}
