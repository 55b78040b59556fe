//go:build linux
// +build linux

package device

import (
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocGAXES    = 0x80016a11
	iocGBUTTONS = 0x80016a12
	iocGNAME    = 0x80ff6a13
)

type device struct {
	file        *os.File
	index       int
	name        string
	axisCount   uint8
	buttonCount uint8
}

// Open opens /dev/input/jsN.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &device{file: f, index: index}
	var name [256]byte
	for _, ioc := range []struct {
		req uintptr
		ptr unsafe.Pointer
	}{
		{iocGAXES, unsafe.Pointer(&d.axisCount)},
		{iocGBUTTONS, unsafe.Pointer(&d.buttonCount)},
		{iocGNAME, unsafe.Pointer(&name[0])},
	} {
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), ioc.req, uintptr(ioc.ptr)); errno != 0 {
			f.Close()
			return nil, errno
		}
	}
	d.name = unix.ByteSliceToString(name[:])
	return d, nil
}

// DetectAndOpen opens the first available device from startIndex.
// It returns nil without error when no device is found.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 256; index++ {
		d, err := Open(index)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, nil
}

// Close implements Device.
func (d *device) Close() error {
	return d.file.Close()
}

// Info implements Device.
func (d *device) Info() Info {
	return Info{Index: d.index, Name: d.name, Axes: int(d.axisCount), Buttons: int(d.buttonCount)}
}

// ReadEvent implements Device.
func (d *device) ReadEvent() (Event, error) {
	var buf [EventSize]byte
	if _, err := io.ReadFull(d.file, buf[:]); err != nil {
		return nil, err
	}
	return ParseEvent(buf[:])
}
