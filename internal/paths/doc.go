// Package paths centralizes filesystem path resolution for clihub.
//
// It knows where each supported client keeps its live MCP configuration file
// and where clihub keeps its own state (the SQLite store, automatic backups,
// and the legacy JSON config). XDG base directories are used for clihub's
// own config file; client live files follow each client's documented
// home-relative location.
package paths
