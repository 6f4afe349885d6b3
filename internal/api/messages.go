package api

import (
	"encoding/json"
	"time"
)

type AuthenticateRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type AuthenticateResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
}

type Device struct {
	ID                  string `json:"id"`
	Serial              string `json:"serial"`
	Model               string `json:"model"`
	Path                string `json:"path"`
	Capacity            int64  `json:"capacity"`
	SectorSize          int    `json:"sector_size"`
	Connected           bool   `json:"connected"`
	SupportsSecureErase bool   `json:"supports_secure_erase"`
	SupportsCryptoErase bool   `json:"supports_crypto_erase"`
}

type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

type SubmitJobRequest struct {
	DeviceIDs []string `json:"device_ids"`
	Method    string   `json:"method"`
	Passes    int      `json:"passes"`
	Verify    bool     `json:"verify"`
}

type SubmitJobResponse struct {
	JobID string `json:"job_id"`
	State string `json:"state"`
}

type JobRequest struct {
	JobID string `json:"job_id"`
}

type Task struct {
	DeviceID     string     `json:"device_id"`
	State        string     `json:"state"`
	Progress     float64    `json:"progress"`
	BytesWritten int64      `json:"bytes_written"`
	Verified     bool       `json:"verified"`
	VerifyNote   string     `json:"verify_note,omitempty"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorDetail  string     `json:"error_detail,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type Job struct {
	ID          string     `json:"id"`
	DeviceIDs   []string   `json:"device_ids"`
	Method      string     `json:"method"`
	Passes      int        `json:"passes"`
	Verify      bool       `json:"verify"`
	RequestedBy string     `json:"requested_by"`
	State       string     `json:"state"`
	Progress    float64    `json:"progress"`
	ErrorKind   string     `json:"error_kind,omitempty"`
	ErrorDetail string     `json:"error_detail,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Tasks       []Task     `json:"tasks,omitempty"`
}

type ListJobsRequest struct {
	State       string `json:"state,omitempty"`
	RequestedBy string `json:"requested_by,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type ListJobsResponse struct {
	Jobs []Job `json:"jobs"`
}

type CertificateRequest struct {
	JobID    string `json:"job_id"`
	DeviceID string `json:"device_id"`
}

// CertificateResponse carries the signed certificate as issued, plus a
// plain-text rendering and, when archiving is enabled, a download link.
type CertificateResponse struct {
	Certificate json.RawMessage `json:"certificate"`
	Report      string          `json:"report"`
	DownloadURL string          `json:"download_url,omitempty"`
}

type AuditEntry struct {
	Seq         int64     `json:"seq"`
	DeviceID    string    `json:"device_id,omitempty"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	BeforeState string    `json:"before_state"`
	AfterState  string    `json:"after_state"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type AuditResponse struct {
	Entries    []AuditEntry `json:"entries"`
	LedgerHash string       `json:"ledger_hash"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
	Role     string `json:"role"`
}

type DeactivateUserRequest struct {
	Username string `json:"username"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type PingResponse struct {
	Status string `json:"status"`
}
