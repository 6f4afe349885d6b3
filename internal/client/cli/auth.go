package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/client/client"
	"github.com/dmitrijs2005/sanitizer/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = PromptLine
var getPassword = PromptSecret

// Login authenticates as args[0], prompting for the user name when it is
// not given. The secret is always read without echo and wiped afterwards.
func (a *App) Login(ctx context.Context, args []string) error {
	var (
		userName string
		err      error
	)
	if len(args) > 0 {
		userName = args[0]
	} else if userName, err = getSimpleText(a.reader, a.out, "User name"); err != nil {
		return a.report(err)
	}

	secret, err := getPassword(a.out, "Secret")
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(secret)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, userName, string(secret))
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			fmt.Fprintln(a.out, "Server unavailable, try again later")
		} else {
			fmt.Fprintln(a.out, "Login unsuccessful")
		}
		return err
	}

	a.userName, a.role = userName, resp.Role
	fmt.Fprintf(a.out, "Logged in as %s (%s), session valid until %s\n",
		userName, resp.Role, resp.ExpiresAt.Local().Format("15:04:05"))
	return nil
}

// Logout forgets the session token.
func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userName, a.role = "", ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// sessionCheck drops the local session when the server reports it expired.
func (a *App) sessionCheck(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		a.userName, a.role = "", ""
	}
	return a.report(err)
}
