package config

import (
	"errors"
	"fmt"

	"github.com/clihub/clihub/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidClient indicates an unrecognized client name.
	ErrInvalidClient = errors.New("invalid client")
)

// ClientError wraps a validation error for a specific client key.
type ClientError struct {
	Client string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client %q: %v", e.Client, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	for client := range cfg.Clients {
		if !paths.ValidClient(client) {
			errs = append(errs, &ClientError{Client: client, Err: ErrInvalidClient})
		}
	}

	return errs
}
