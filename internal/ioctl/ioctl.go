//go:build linux

// Package ioctl encodes and issues Linux ioctl requests.
package ioctl

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Mode is the IOCTL mode.
type Mode uint8

// Modes
const (
	None      Mode = iota
	Write          // userspace writes, the kernel reads
	Read           // the kernel writes, userspace reads
	ReadWrite = Read | Write
)

// Command to be sent over ioctl.
type Command uintptr

func (c Command) String() string {
	var (
		mode = Mode(c >> 30 & 0x03)
		size = c >> 16 & 0x3fff
		typ  = c >> 8 & 0xff
		nr   = c & 0xff
		str  string
	)
	if mode&Write > 0 {
		str += " write"
	}
	if mode&Read > 0 {
		str += " read"
	}
	return fmt.Sprintf("ioctl%s (%d bytes) %q 0x%02x", str, size, rune(typ), uintptr(nr))
}

// Error is a failed ioctl call.
type Error struct {
	Command Command
	Errno   syscall.Errno
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Command, e.Errno)
}

// Unwrap returns the errno, so errors.Is(err, syscall.ENODEV) holds.
func (e *Error) Unwrap() error {
	return e.Errno
}

// Do executes the ioctl call with arg pointing at the argument structure.
// Interrupted calls are retried.
func Do(fd uintptr, command Command, arg unsafe.Pointer) error {
	for {
		_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(command), uintptr(arg))
		switch errno {
		case 0:
			return nil
		case syscall.EINTR, syscall.EAGAIN:
			continue
		default:
			return &Error{Command: command, Errno: errno}
		}
	}
}

// Encode an ioctl command from its mode, argument size, type and number.
func Encode(mode Mode, size uint16, typ, nr uint8) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(typ)<<8 | Command(nr)
}

// For encodes a command whose argument is a T.
func For[T any](mode Mode, typ, nr uint8) Command {
	var arg T
	return Encode(mode, uint16(unsafe.Sizeof(arg)), typ, nr)
}
