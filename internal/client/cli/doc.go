// Package cli provides the interactive operator console for the sanitizer
// server.
//
// The console logs in with a username and secret (read without echo), keeps
// the access token for the session and exposes commands to list and rescan
// devices, submit and cancel sanitization jobs, follow their progress,
// fetch or issue certificates, read a job's audit trail and, for admins,
// manage user accounts.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command set.
package cli
