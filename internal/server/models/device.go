package models

import (
	"crypto/sha256"
	"encoding/hex"
)

// Device is a storage device reported by discovery. The core only reads it;
// the lock table is the only state it participates in.
type Device struct {
	ID                  string
	Serial              string
	Model               string
	Path                string
	Capacity            int64
	SectorSize          int
	Connected           bool
	SupportsSecureErase bool
	SupportsCryptoErase bool
}

// DeviceID derives the stable identity of a device from its serial number
// and model, so the same disk keeps its ID across rescans and paths.
func DeviceID(serial, model string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + serial))
	return hex.EncodeToString(sum[:10])
}
