// Package config loads runtime configuration for the sanitizer operator CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the sanitizer gRPC endpoint
//	-t int      per-request timeout (seconds)
//	-o string   directory certificates are exported to
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "export_dir": "certificates"
//	}
package config
