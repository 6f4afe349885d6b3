package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/api"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func percent(f float64) string {
	return fmt.Sprintf("%5.1f%%", f*100)
}

func when(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func renderDevices(w io.Writer, list []api.Device) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No devices")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSERIAL\tMODEL\tCAPACITY\tSECTOR\tCONNECTED\tHW ERASE")
	for _, d := range list {
		hw := "-"
		switch {
		case d.SupportsSecureErase && d.SupportsCryptoErase:
			hw = "secure,crypto"
		case d.SupportsSecureErase:
			hw = "secure"
		case d.SupportsCryptoErase:
			hw = "crypto"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\t%s\n",
			d.ID, d.Serial, d.Model, humanBytes(d.Capacity), d.SectorSize, d.Connected, hw)
	}
	tw.Flush()
}

func renderJob(w io.Writer, j *api.Job) {
	fmt.Fprintf(w, "Job %s\n", j.ID)
	fmt.Fprintf(w, "  method:    %s (passes %d, verify %t)\n", j.Method, j.Passes, j.Verify)
	fmt.Fprintf(w, "  state:     %s %s\n", j.State, percent(j.Progress))
	fmt.Fprintf(w, "  requested: %s by %s\n", j.CreatedAt.Local().Format(time.DateTime), j.RequestedBy)
	fmt.Fprintf(w, "  started:   %s\n", when(j.StartedAt))
	fmt.Fprintf(w, "  ended:     %s\n", when(j.EndedAt))
	if j.ErrorKind != "" {
		fmt.Fprintf(w, "  error:     %s: %s\n", j.ErrorKind, j.ErrorDetail)
	}
	if len(j.Tasks) == 0 {
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  DEVICE\tSTATE\tPROGRESS\tWRITTEN\tVERIFIED\tERROR")
	for _, t := range j.Tasks {
		errText := "-"
		if t.ErrorKind != "" {
			errText = t.ErrorKind + ": " + t.ErrorDetail
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%t\t%s\n",
			t.DeviceID, t.State, percent(t.Progress), humanBytes(t.BytesWritten), t.Verified, errText)
	}
	tw.Flush()
}

func renderJobs(w io.Writer, jobs []api.Job) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tMETHOD\tDEVICES\tSTATE\tPROGRESS\tBY\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			j.ID, j.Method, len(j.DeviceIDs), j.State, percent(j.Progress), j.RequestedBy,
			j.CreatedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}

func renderAudit(w io.Writer, a *api.AuditResponse) {
	tw := newTable(w)
	fmt.Fprintln(tw, "SEQ\tTIME\tACTOR\tACTION\tDEVICE\tTRANSITION\tDETAIL")
	for _, e := range a.Entries {
		dev := e.DeviceID
		if dev == "" {
			dev = "-"
		}
		before := e.BeforeState
		if before == "" {
			before = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s -> %s\t%s\n",
			e.Seq, e.Timestamp.Local().Format(time.DateTime), e.Actor, e.Action, dev, before, e.AfterState, e.Detail)
	}
	tw.Flush()
	fmt.Fprintf(w, "ledger hash: %s\n", a.LedgerHash)
}
