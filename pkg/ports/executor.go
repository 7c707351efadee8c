package ports

import (
	"context"

	"github.com/awkspace/runfile/pkg/domain"
)

// StepEnv carries the execution context of a single code block.
type StepEnv struct {
	// Vars is exported into the step's environment before execution.
	Vars map[string]string

	// Container, when non-empty, is the handle of the container the step
	// must run inside instead of a local subprocess.
	Container string
}

// StepExecutor runs one executable code block to completion. A non-zero
// exit status is reported as a *domain.StepError; any other error means
// the step could not be started at all.
type StepExecutor interface {
	RunStep(ctx context.Context, block *domain.CodeBlock, env StepEnv) error
}
