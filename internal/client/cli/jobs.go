package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/sanitizer/internal/api"
)

var errUsage = errors.New("usage")

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

// Submit starts a job: submit -method m [-passes n] [-verify] <device-id>...
func (a *App) Submit(ctx context.Context, args []string) error {
	fs := newFlagSet("submit", a.out)
	method := fs.String("method", "", "sanitization method")
	passes := fs.Int("passes", 0, "overwrite passes (0 = method default)")
	verify := fs.Bool("verify", false, "read back and verify afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *method == "" || fs.NArg() == 0 {
		fmt.Fprintln(a.out, "Usage: submit -method <method> [-passes n] [-verify] <device-id>...")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.SubmitJob(ctx, &api.SubmitJobRequest{
		DeviceIDs: fs.Args(),
		Method:    *method,
		Passes:    *passes,
		Verify:    *verify,
	})
	if err != nil {
		return a.sessionCheck(err)
	}
	fmt.Fprintf(a.out, "Job %s %s\n", resp.JobID, resp.State)
	return nil
}

// Status prints one job with its per-device progress.
func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: status <job-id>")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	job, err := a.client.GetStatus(ctx, args[0])
	if err != nil {
		return a.sessionCheck(err)
	}
	renderJob(a.out, job)
	return nil
}

// Jobs lists jobs: jobs [-state s] [-user u] [-limit n]
func (a *App) Jobs(ctx context.Context, args []string) error {
	fs := newFlagSet("jobs", a.out)
	state := fs.String("state", "", "only jobs in this state")
	user := fs.String("user", "", "only jobs requested by this user")
	limit := fs.Int("limit", 20, "maximum number of jobs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	jobs, err := a.client.ListJobs(ctx, &api.ListJobsRequest{State: *state, RequestedBy: *user, Limit: *limit})
	if err != nil {
		return a.sessionCheck(err)
	}
	renderJobs(a.out, jobs)
	return nil
}

// Cancel stops a queued or running job.
func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: cancel <job-id>")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.CancelJob(ctx, args[0]); err != nil {
		return a.sessionCheck(err)
	}
	fmt.Fprintf(a.out, "Cancellation of %s requested\n", args[0])
	return nil
}

// Audit prints a job's audit trail.
func (a *App) Audit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: audit <job-id>")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.ListAudit(ctx, args[0])
	if err != nil {
		return a.sessionCheck(err)
	}
	renderAudit(a.out, resp)
	return nil
}
