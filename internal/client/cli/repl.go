package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Devices(ctx context.Context, rescan bool) error
	Submit(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
	Jobs(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Cert(ctx context.Context, args []string) error
	Audit(ctx context.Context, args []string) error
	UserAdd(ctx context.Context, args []string) error
	UserDel(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login [user], exit"
	helpLoggedIn  = "Available commands: devices, scan, submit, status, jobs, cancel, cert, audit, useradd, userdel, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF or when the user types "exit" or "quit".
//
//	devices                               list known devices
//	scan                                  rescan attached devices
//	submit -method m [-passes n] [-verify] <device-id>...
//	status <job-id>                       job and per-device progress
//	jobs [-state s] [-user u] [-limit n]  list jobs, newest first
//	cancel <job-id>                       cancel a queued or running job
//	cert [-issue] [-export] [-download] <job-id> <device-id>
//	audit <job-id>                        audit trail and ledger hash
//	useradd <user> <role>                 admin only; prompts for the secret
//	userdel <user>                        admin only
//
// Command handlers report their own errors; the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("san%s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help", "login", "exit", "quit":
			default:
				printlnFn("Please log in first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			_ = a.Login(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "devices", "d":
			_ = a.Devices(ctx, false)

		case "scan":
			_ = a.Devices(ctx, true)

		case "submit":
			_ = a.Submit(ctx, args)

		case "status", "s":
			_ = a.Status(ctx, args)

		case "jobs", "j":
			_ = a.Jobs(ctx, args)

		case "cancel":
			_ = a.Cancel(ctx, args)

		case "cert":
			_ = a.Cert(ctx, args)

		case "audit":
			_ = a.Audit(ctx, args)

		case "useradd":
			_ = a.UserAdd(ctx, args)

		case "userdel":
			_ = a.UserDel(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
