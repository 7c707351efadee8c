// Package exec runs code blocks as local subprocesses or container execs,
// dispatching on the block's language tag through a command registry.
package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"github.com/awkspace/runfile/pkg/domain"
	"github.com/awkspace/runfile/pkg/ports"
)

// language describes how blocks of one language tag are materialized and
// invoked. Cmd templates may reference {file}, {dir} and {exe}.
type language struct {
	File string
	Cmd  string
}

// defaultCmd invokes an interpreter named after the language tag, the
// fallback for tags without a registry entry.
const defaultCmd = `/usr/bin/env {exe} "{file}"`

var defaultLanguages = map[string]language{
	"sh":     {Cmd: `/usr/bin/env sh -e "{file}"`},
	"bash":   {Cmd: `/usr/bin/env bash -e "{file}"`},
	"zsh":    {Cmd: `/usr/bin/env zsh -e "{file}"`},
	"js":     {Cmd: `/usr/bin/env node "{file}"`},
	"go":     {File: "run.go", Cmd: `/usr/bin/env go run "{dir}/run.go"`},
	"java":   {File: "Main.java"},
	"c":      {File: "run.c", Cmd: `gcc "{dir}/run.c" -o "{dir}/run" && "{dir}/run"`},
	"cpp":    {File: "run.cpp", Cmd: `g++ "{dir}/run.cpp" -o "{dir}/run" && "{dir}/run"`},
	"csharp": {File: "run.cs", Cmd: `mcs "{dir}/run.cs" && mono "{dir}/run.exe"`},
}

// Executor implements ports.StepExecutor.
type Executor struct {
	registry   map[string]language
	containers ports.ContainerRuntime
	output     io.Writer
}

// Option configures an Executor.
type Option func(*Executor)

// WithContainerRuntime enables dispatching steps into containers.
func WithContainerRuntime(runtime ports.ContainerRuntime) Option {
	return func(e *Executor) {
		e.containers = runtime
	}
}

// WithOutput redirects combined step output, defaulting to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		e.output = w
	}
}

// New creates an Executor with the default language registry.
func New(opts ...Option) *Executor {
	e := &Executor{
		registry: defaultLanguages,
		output:   os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunStep materializes the block body into a temp file and executes the
// language's command template, streaming combined output. A non-zero exit
// status becomes a *domain.StepError.
func (e *Executor) RunStep(ctx context.Context, block *domain.CodeBlock, env ports.StepEnv) error {
	dir, err := os.MkdirTemp("", "runfile-step-")
	if err != nil {
		return fmt.Errorf("failed to create step directory: %w", err)
	}
	defer os.RemoveAll(dir)

	lang := e.registry[block.Language]
	filename := lang.File
	if filename == "" {
		filename = "run"
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(block.Body), 0644); err != nil {
		return fmt.Errorf("failed to write step file: %w", err)
	}

	cmdDir, cmdPath := dir, path
	if env.Container != "" {
		// The step directory is visible inside the container below /host.
		cmdDir = filepath.Join("/host", strings.TrimPrefix(dir, "/"))
		cmdPath = filepath.Join("/host", strings.TrimPrefix(path, "/"))
	}

	tmpl := lang.Cmd
	if tmpl == "" {
		tmpl = defaultCmd
	}
	cmd := strings.NewReplacer(
		"{dir}", cmdDir,
		"{file}", cmdPath,
		"{exe}", block.Language,
	).Replace(tmpl)

	var exitCode int
	if env.Container != "" {
		exitCode, err = e.containers.Exec(ctx, env.Container, cmd, e.output)
	} else {
		exitCode, err = e.runLocal(ctx, cmd, env.Vars)
	}
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return &domain.StepError{ExitCode: exitCode}
	}
	return nil
}

// runLocal executes the formatted command through /bin/sh, with the
// store-wide vars appended to the environment.
func (e *Executor) runLocal(ctx context.Context, cmd string, vars map[string]string) (int, error) {
	proc := osexec.CommandContext(ctx, "/bin/sh", "-c", cmd)
	proc.Stdout = e.output
	proc.Stderr = e.output
	proc.Env = os.Environ()
	for k, v := range vars {
		proc.Env = append(proc.Env, k+"="+v)
	}

	if err := proc.Run(); err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to run step: %w", err)
	}
	return 0, nil
}
