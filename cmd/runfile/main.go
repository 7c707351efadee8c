package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/awkspace/runfile/pkg/domain"
)

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	// A target that ran and failed propagates its exit code. Everything
	// else (format errors, missing targets, infrastructure) exits 1.
	var execErr *domain.TargetExecutionError
	if errors.As(err, &execErr) {
		os.Exit(execErr.ExitCode)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
