// Package config defines the deployment configuration for a portal process:
// the wire serialization format, the transport to use for remote dispatch,
// the endpoint address, debug logging, and operation timeouts.
//
// # Basic configuration
//
//	cfg := &config.Config{
//		Addr: "localhost:7101",
//	}
//	if err := cfg.Validate(); err != nil { ... }
//
// Validate fills implicit defaults (grpc transport, ordinal format) and
// checks required fields. Timeouts.WithDefaults supplies per-operation
// deadlines.
//
// # Environment
//
// FromEnv reads the same settings from the process environment:
//
//	PORTAL_FORMAT    - "ordinal" (default) or "named", case-insensitive;
//	                   anything unrecognized resolves to ordinal
//	PORTAL_TRANSPORT - "grpc" (default) or "jsonrpc"
//	PORTAL_ADDR      - endpoint address (required)
//	PORTAL_DEBUG     - verbose logging
package config
