// Package devices is the boundary to storage hardware. The sanitizer core
// only needs block reads and writes, a flush, device identity and, for
// hardware purge methods, the device's native erase command. Raw ATA/NVMe
// command bindings live behind these interfaces.
package devices

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

var (
	ErrUnsupported = errors.New("operation not supported by device")
	ErrClosed      = errors.New("device handle closed")
	ErrOutOfRange  = errors.New("offset outside device")
)

// EraseKind selects the native erase command.
type EraseKind int

const (
	EraseSecure EraseKind = iota
	EraseCrypto
)

// Handle is an open device. Offsets are in bytes and callers keep them
// sector aligned.
type Handle interface {
	Identity() models.Device
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	Flush() error
	NativeErase(ctx context.Context, kind EraseKind) error
	Close() error
}

// Provider discovers devices and opens handles to them.
type Provider interface {
	Scan(ctx context.Context) ([]models.Device, error)
	Open(ctx context.Context, deviceID string) (Handle, error)
}
