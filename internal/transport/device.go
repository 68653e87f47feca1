// Package transport implements the raw USB bulk/interrupt plumbing used to
// talk to a Clavia Nord Modular G2. It knows nothing about the wire
// protocol carried over the endpoints; that lives in package protocol.
package transport

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/chrispurusha/g2edit/internal/usbfs"
)

// VendorID and ProductID identify a G2 on the USB bus.
const (
	VendorID  = 0x0ffc
	ProductID = 0x0002
)

const (
	EndpointInterruptIn = 0x81
	EndpointBulkIn      = 0x82
	EndpointBulkOut     = 0x03

	interfaceNumber = 0
)

// ErrNoDevice is returned once a transfer reports the device has gone away.
var ErrNoDevice = errors.New("transport: no device")

// ErrTimeout is returned when a transfer exceeds its deadline with no data.
var ErrTimeout = errors.New("transport: timeout")

// Device is an open handle to a G2's USB interface.
type Device struct {
	fd           int
	BusNumber    int
	DeviceNumber int
}

func newDevice(busNumber, deviceNumber int) *Device {
	return &Device{fd: -1, BusNumber: busNumber, DeviceNumber: deviceNumber}
}

// Open opens the underlying usbfs device node.
func (d *Device) Open() error {
	if d.fd != -1 {
		return fmt.Errorf("transport: device already open")
	}
	fd, err := usbfs.OpenDevice(d.BusNumber, d.DeviceNumber)
	if err != nil {
		return err
	}
	d.fd = fd
	return nil
}

func (d *Device) IsOpen() bool {
	return d.fd != -1
}

// Reset issues USBDEVFS_RESET, used after opening before claiming the
// interface so a previous session's state on the device is discarded.
func (d *Device) Reset() error {
	return usbfs.ResetDevice(d.fd)
}

// Claim detaches any bound kernel driver and claims the G2's single
// interface for exclusive use.
func (d *Device) Claim() error {
	_ = usbfs.Disconnect(d.fd, interfaceNumber)
	return usbfs.ClaimInterface(d.fd, interfaceNumber)
}

func (d *Device) Release() error {
	return usbfs.ReleaseInterface(d.fd, interfaceNumber)
}

// Bulk performs a single bulk transfer on the given endpoint with a
// millisecond timeout. ep's direction bit is irrelevant to the ioctl; it is
// determined by the interface the caller selects (in/out endpoint number).
func (d *Device) Bulk(ep uint8, data []byte, timeoutMS uint32) (int, error) {
	n, err := usbfs.BulkTransfer(d.fd, uint32(ep), timeoutMS, data)
	if err == nil {
		return n, nil
	}
	switch {
	case errors.Is(err, syscall.ENODEV), errors.Is(err, syscall.ENOENT), errors.Is(err, syscall.ESHUTDOWN):
		return n, ErrNoDevice
	case errors.Is(err, syscall.ETIMEDOUT):
		return n, ErrTimeout
	default:
		return n, err
	}
}

func (d *Device) Close() error {
	if d.fd == -1 {
		return nil
	}
	err := syscall.Close(d.fd)
	d.fd = -1
	return err
}
