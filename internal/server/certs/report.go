package certs

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sanitizer/internal/server/models"
)

// RenderReport formats a certificate for printing and archival.
func RenderReport(cert *models.Certificate) string {
	b := cert.Body
	var sb strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&sb, "  %-20s %s\n", label+":", value)
	}

	sb.WriteString("DATA SANITIZATION CERTIFICATE\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")
	line("Certificate ID", cert.ID)
	line("Issued", b.IssuedAt.Format("2006-01-02 15:04:05 MST"))
	line("Issued by", b.IssuedBy)

	sb.WriteString("\nDevice\n")
	line("Serial", b.DeviceSerial)
	line("Model", b.DeviceModel)
	line("Capacity", formatBytes(b.DeviceCapacity))
	line("Sector size", fmt.Sprintf("%d bytes", b.SectorSize))

	sb.WriteString("\nSanitization\n")
	line("Job", b.JobID)
	line("Method", b.Method)
	line("Compliance", string(b.Compliance))
	line("Passes", fmt.Sprintf("%d", b.PassesCompleted))
	line("Data processed", formatBytes(b.BytesProcessed))
	line("Started", b.StartedAt.Format("2006-01-02 15:04:05 MST"))
	line("Completed", b.EndedAt.Format("2006-01-02 15:04:05 MST"))
	line("Duration", fmt.Sprintf("%ds", b.DurationSeconds))
	line("Average speed", fmt.Sprintf("%.2f MB/s", b.AverageMBps))

	sb.WriteString("\nVerification\n")
	verified := "NO"
	if b.Verified {
		verified = "YES"
	}
	line("Verified", verified)
	line("Details", b.VerificationNote)

	sb.WriteString("\nStandards met\n")
	for _, s := range b.StandardsMet {
		fmt.Fprintf(&sb, "  - %s\n", s)
	}

	sb.WriteString("\nIntegrity\n")
	line("Ledger hash", b.LedgerHash)
	line("Signing key", b.SignerKeyID)
	line("Signature", fmt.Sprintf("%x", cert.Signature))
	return sb.String()
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
