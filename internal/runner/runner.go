// Package runner schedules and executes targets in topological order,
// consulting the cache engine before and after each one.
package runner

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/awkspace/runfile/internal/cache"
	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/internal/graph"
	"github.com/awkspace/runfile/internal/presentation"
	"github.com/awkspace/runfile/pkg/domain"
	"github.com/awkspace/runfile/pkg/ports"
)

// Runner executes targets strictly sequentially: one target at a time,
// blocks in declaration order, fail-fast on the first Failure result.
type Runner struct {
	cache         *cache.Engine
	executor      ports.StepExecutor
	containers    ports.ContainerRuntime
	useContainers bool
	printer       *presentation.Printer
	logger        *slog.Logger
	now           func() time.Time

	// docContainers tracks the long-lived document-level container per
	// document; these stay alive across the targets of their document and
	// are torn down when the run ends.
	docContainers map[*domain.Document]string
}

// Option configures a Runner.
type Option func(*Runner)

// WithContainers opts the run into containerized execution.
func WithContainers(runtime ports.ContainerRuntime) Option {
	return func(r *Runner) {
		r.containers = runtime
		r.useContainers = runtime != nil
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// New creates a Runner.
func New(engine *cache.Engine, executor ports.StepExecutor, printer *presentation.Printer, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cache:         engine,
		executor:      executor,
		printer:       printer,
		logger:        logger,
		now:           time.Now,
		docContainers: make(map[*domain.Document]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves the match expression, expands the dependency graph and
// executes every scheduled target in topological order. A Failure result
// halts further scheduling immediately; results produced so far are
// returned alongside the propagated error for the run summary.
func (r *Runner) Run(ctx context.Context, root *domain.Document, expr string) ([]*domain.TargetResult, error) {
	initial := document.FindTargets(root, expr)
	if len(initial) == 0 {
		return nil, &domain.TargetNotFoundError{Expression: expr}
	}

	g := graph.Build(initial)
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}
	defer r.teardown(ctx)

	var results []*domain.TargetResult
	for _, target := range order {
		result, err := r.executeTarget(ctx, target)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if target.Name != "" {
			r.printer.Status(result)
		}
		if result.Status == domain.StatusFailure {
			return results, result.Err()
		}
	}
	return results, nil
}

// executeTarget runs one target's blocks, or reports a cached hit. A
// StepError is recovered into a Failure result; any other error aborts the
// run as an infrastructure failure.
func (r *Runner) executeTarget(ctx context.Context, target *domain.Target) (*domain.TargetResult, error) {
	result := &domain.TargetResult{Name: target.UniqueName}

	var handle string
	perTarget := false
	if r.useContainers {
		var err error
		// The unnamed setup target owns the document-level build spec, so
		// it shares the document container rather than getting its own.
		if target.Name != "" && target.BuildSpec != "" {
			handle, err = r.startFromSpec(ctx, target, target.BuildSpec)
			perTarget = true
		} else {
			handle, err = r.documentContainer(ctx, target.Doc)
		}
		if err != nil {
			return nil, err
		}
	}
	if perTarget {
		defer r.stopContainer(ctx, handle)
	}

	expired, err := r.cache.IsExpired(ctx, target)
	if err != nil {
		return nil, err
	}
	if !expired {
		result.Status = domain.StatusCached
		return result, nil
	}

	if target.Name != "" {
		r.printer.Executing(target.UniqueName)
	}
	vars, err := r.cache.Vars(ctx)
	if err != nil {
		return nil, err
	}
	env := ports.StepEnv{Vars: vars, Container: handle}

	result.Started = r.now()
	result.Status = domain.StatusSuccess
	for _, block := range target.Blocks {
		if err := r.executor.RunStep(ctx, block, env); err != nil {
			var stepErr *domain.StepError
			if !errors.As(err, &stepErr) {
				return nil, err
			}
			result.Status = domain.StatusFailure
			result.ExitCode = stepErr.ExitCode
			break
		}
	}
	result.Finished = r.now()

	if result.Status == domain.StatusSuccess {
		if err := r.cache.Commit(ctx, target, result.Finished); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// startFromSpec starts a container for a build spec, reusing the cached
// image when the spec hash still matches and the image still exists.
func (r *Runner) startFromSpec(ctx context.Context, target *domain.Target, spec string) (string, error) {
	entry, err := r.cache.Entry(ctx, target)
	if err != nil {
		return "", err
	}
	specHash := hashSpec(spec)
	if entry.Image != "" && entry.BuildHash == specHash {
		if handle, err := r.containers.StartContainer(ctx, entry.Image); err == nil {
			return handle, nil
		}
		r.logger.Debug("cached image unavailable, rebuilding", "target", target.UniqueName)
	}

	image, err := r.containers.BuildImage(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := r.cache.RecordImage(ctx, target, image, specHash); err != nil {
		return "", err
	}
	return r.containers.StartContainer(ctx, image)
}

// documentContainer lazily starts the shared container for a document,
// built from the document-level build spec. Documents without one run
// their targets locally even in containerized mode.
func (r *Runner) documentContainer(ctx context.Context, doc *domain.Document) (string, error) {
	if handle, ok := r.docContainers[doc]; ok {
		return handle, nil
	}
	setup := doc.Setup()
	if setup == nil || setup.BuildSpec == "" {
		r.docContainers[doc] = ""
		return "", nil
	}
	handle, err := r.startFromSpec(ctx, setup, setup.BuildSpec)
	if err != nil {
		return "", err
	}
	r.docContainers[doc] = handle
	return handle, nil
}

func (r *Runner) stopContainer(ctx context.Context, handle string) {
	if handle == "" {
		return
	}
	if err := r.containers.StopContainer(ctx, handle); err != nil {
		r.logger.Warn("failed to stop container", "handle", handle, "err", err)
	}
}

func (r *Runner) teardown(ctx context.Context) {
	for doc, handle := range r.docContainers {
		r.stopContainer(ctx, handle)
		delete(r.docContainers, doc)
	}
}

func hashSpec(spec string) string {
	sum := sha1.Sum([]byte(spec))
	return hex.EncodeToString(sum[:])
}
