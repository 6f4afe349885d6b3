// Package client talks to the sanitizer server on behalf of the operator CLI.
//
// GRPCClient implements Client over the hand-written Sanitizer service in
// package api. It keeps the access token returned by Login, attaches it to
// every call through a unary interceptor and maps gRPC status codes to the
// sentinel errors ErrUnavailable, ErrUnauthorized, ErrSessionExpired and
// ErrNotFound, which callers match with errors.Is.
package client
