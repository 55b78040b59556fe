//go:build !linux
// +build !linux

package device

import "errors"

// ErrNotSupported is returned on platforms without joystick support.
var ErrNotSupported = errors.New("joystick not supported on this platform")

// Open is not supported.
func Open(index int) (Device, error) {
	return nil, ErrNotSupported
}

// DetectAndOpen is not supported.
func DetectAndOpen(startIndex int) (Device, error) {
	return nil, ErrNotSupported
}
