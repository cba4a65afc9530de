// Package validator checks MCP server specs before they are persisted or
// exported to client config files.
package validator

import (
	"strings"

	"github.com/cockroachdb/errors"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
)

// Validate checks that a spec is complete for its transport.
//
// A missing type means stdio. stdio requires a non-blank command;
// http and sse require a non-blank url. Any other type is rejected.
// All failures carry the validation kind.
func Validate(spec *mcp.Spec) error {
	if spec == nil {
		return errors.Wrap(apperrors.ErrValidation, "server spec is missing")
	}

	switch spec.EffectiveType() {
	case mcp.TypeStdio:
		if strings.TrimSpace(spec.Command) == "" {
			return errors.Wrap(apperrors.ErrValidation, "stdio server requires a command")
		}
	case mcp.TypeHTTP, mcp.TypeSSE:
		if strings.TrimSpace(spec.URL) == "" {
			return errors.Wrapf(apperrors.ErrValidation, "%s server requires a url", spec.Type)
		}
	default:
		return errors.Wrapf(apperrors.ErrValidation, "unknown server type %q", spec.Type)
	}

	return nil
}

// ValidateServer checks a full server record: a non-blank ID plus a valid
// spec.
func ValidateServer(srv *mcp.Server) error {
	if srv == nil {
		return errors.Wrap(apperrors.ErrValidation, "server is missing")
	}
	if strings.TrimSpace(srv.ID) == "" {
		return errors.Wrap(apperrors.ErrValidation, "server id must not be blank")
	}
	return Validate(srv.Spec)
}
