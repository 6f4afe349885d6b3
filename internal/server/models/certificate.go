package models

import "time"

// ComplianceLevel is the NIST SP 800-88 tier reached by a sanitization.
type ComplianceLevel string

const (
	ComplianceClear   ComplianceLevel = "Clear"
	CompliancePurge   ComplianceLevel = "Purge"
	ComplianceDestroy ComplianceLevel = "Destroy-advisory"
)

// CertificateBody is the signed, hashed part of a certificate. Field order
// is fixed; the JSON encoding of this struct is the canonical form.
type CertificateBody struct {
	JobID            string          `json:"job_id"`
	DeviceID         string          `json:"device_id"`
	DeviceSerial     string          `json:"device_serial"`
	DeviceModel      string          `json:"device_model"`
	DeviceCapacity   int64           `json:"device_capacity"`
	SectorSize       int             `json:"sector_size"`
	Method           string          `json:"method"`
	Compliance       ComplianceLevel `json:"compliance"`
	StandardsMet     []string        `json:"standards_met"`
	PassesCompleted  int             `json:"passes_completed"`
	BytesProcessed   int64           `json:"bytes_processed"`
	Verified         bool            `json:"verified"`
	VerificationNote string          `json:"verification_note"`
	StartedAt        time.Time       `json:"started_at"`
	EndedAt          time.Time       `json:"ended_at"`
	DurationSeconds  int64           `json:"duration_seconds"`
	AverageMBps      float64         `json:"average_mbps"`
	IssuedBy         string          `json:"issued_by"`
	IssuedAt         time.Time       `json:"issued_at"`
	LedgerHash       string          `json:"ledger_hash"`
	SignerKeyID      string          `json:"signer_key_id"`
}

// Certificate is an immutable proof of erasure. ID is the hex SHA-256 of the
// canonical body and Signature is an Ed25519 signature over ID.
type Certificate struct {
	ID        string          `json:"id"`
	Body      CertificateBody `json:"body"`
	Signature []byte          `json:"signature"`
}
