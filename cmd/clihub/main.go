// Package main is the entry point for the clihub CLI.
package main

import (
	"fmt"
	"os"

	cerrors "github.com/cockroachdb/errors"

	"github.com/clihub/clihub/cmd/clihub/commands"
	"github.com/clihub/clihub/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *errors.ExitError
		if cerrors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(errors.ExitUser)
	}
}
