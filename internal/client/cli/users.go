package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sanitizer/internal/common"
)

// UserAdd creates an account: useradd <user> <admin|operator|viewer>.
// The secret is read twice without echo.
func (a *App) UserAdd(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: useradd <user> <admin|operator|viewer>")
		return errUsage
	}

	secret, err := promptNewSecret(a.out, "Secret for "+args[0])
	if errors.Is(err, errSecretMismatch) {
		fmt.Fprintln(a.out, "Secrets do not match")
		return errUsage
	}
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(secret)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.CreateUser(ctx, args[0], string(secret), args[1])
	if err != nil {
		return a.sessionCheck(err)
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", u.Username, u.Role)
	return nil
}

// UserDel deactivates an account. Accounts are never deleted.
func (a *App) UserDel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: userdel <user>")
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.DeactivateUser(ctx, args[0])
	if err != nil {
		return a.sessionCheck(err)
	}
	fmt.Fprintf(a.out, "Deactivated %s\n", u.Username)
	return nil
}
