// Package mcp defines the canonical model for MCP server configuration
// shared across the supported CLI clients.
//
// A Server couples a transport Spec with per-client enablement flags and
// descriptive metadata. The Spec preserves unknown JSON fields verbatim so
// configs written by newer tools survive a round trip through clihub.
package mcp
