package sanitize

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

var (
	ErrInvalidBuffer = errors.New("buffer size must be a positive multiple of the sector size")
	ErrCancelled     = errors.New("sanitization cancelled")
)

// SectorError is a write that kept failing after all retries.
type SectorError struct {
	DeviceID    string
	FirstSector int64
	SectorCount int64
	Err         error
}

func (e *SectorError) Error() string {
	return fmt.Sprintf("device %s: sectors %d..%d failed: %v",
		e.DeviceID, e.FirstSector, e.FirstSector+e.SectorCount-1, e.Err)
}

func (e *SectorError) Unwrap() error { return e.Err }

// VerificationError is a read-back that did not match the final pattern.
type VerificationError struct {
	DeviceID string
	Sector   int64
	Err      error
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("device %s: sector %d unreadable during verification: %v", e.DeviceID, e.Sector, e.Err)
	}
	return fmt.Sprintf("device %s: sector %d does not match final pattern", e.DeviceID, e.Sector)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Kind classifies an execution error.
func Kind(err error) models.ErrorKind {
	var se *SectorError
	var ve *VerificationError
	switch {
	case err == nil:
		return models.ErrorKindNone
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return models.ErrorKindCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return models.ErrorKindTimeout
	case errors.As(err, &ve):
		return models.ErrorKindVerification
	case errors.As(err, &se):
		return models.ErrorKindIO
	}
	return models.ErrorKindDevice
}
