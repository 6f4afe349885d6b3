package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/filex"
	"github.com/dmitrijs2005/sanitizer/internal/netx"
)

// downloadArchived is a test seam for netx.DownloadFromPresignedURL.
var downloadArchived = netx.DownloadFromPresignedURL

// Cert prints a device's certificate report:
// cert [-issue] [-export] [-download] <job-id> <device-id>
func (a *App) Cert(ctx context.Context, args []string) error {
	fs := newFlagSet("cert", a.out)
	issue := fs.Bool("issue", false, "issue the certificate if it does not exist yet")
	export := fs.Bool("export", false, "save certificate and report to the export directory")
	download := fs.Bool("download", false, "also fetch the archived copy")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(a.out, "Usage: cert [-issue] [-export] [-download] <job-id> <device-id>")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.GetCertificate(ctx, fs.Arg(0), fs.Arg(1), *issue)
	if err != nil {
		return a.sessionCheck(err)
	}
	fmt.Fprintln(a.out, resp.Report)

	if !*export && !*download {
		return nil
	}

	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Certificate, &head); err != nil {
		return a.report(fmt.Errorf("malformed certificate: %w", err))
	}
	if head.ID == "" {
		return a.report(errors.New("malformed certificate: no id"))
	}

	dir, err := filex.EnsureSubdDir(a.config.ExportDir)
	if err != nil {
		return a.report(err)
	}

	if *export {
		for name, data := range map[string][]byte{
			head.ID + ".json": resp.Certificate,
			head.ID + ".txt":  []byte(resp.Report),
		} {
			path, err := filex.WriteExport(dir, name, data)
			if err != nil {
				return a.report(err)
			}
			fmt.Fprintf(a.out, "Saved %s\n", path)
		}
	}

	if *download {
		if resp.DownloadURL == "" {
			fmt.Fprintln(a.out, "Certificate archiving is not enabled on the server")
			return nil
		}
		data, err := downloadArchived(ctx, resp.DownloadURL)
		if err != nil {
			return a.report(err)
		}
		path, err := filex.WriteExport(dir, head.ID+".archived.json", data)
		if err != nil {
			return a.report(err)
		}
		fmt.Fprintf(a.out, "Saved %s\n", path)
	}
	return nil
}
