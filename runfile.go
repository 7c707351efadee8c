package runfile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"

	"github.com/awkspace/runfile/internal/adapters/exec"
	"github.com/awkspace/runfile/internal/adapters/fetch"
	"github.com/awkspace/runfile/internal/adapters/file"
	"github.com/awkspace/runfile/internal/cache"
	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/internal/logging"
	"github.com/awkspace/runfile/internal/presentation"
	"github.com/awkspace/runfile/internal/runner"
	"github.com/awkspace/runfile/pkg/domain"
	"github.com/awkspace/runfile/pkg/ports"
)

// Runfile is the high-level entry point for the runfile library. It wraps
// the document builder, cache engine and runner behind a simplified API
// for consumers.
type Runfile struct {
	path          string
	doc           *domain.Document
	builder       *document.Builder
	fetcher       ports.Fetcher
	store         ports.CacheStore
	locker        ports.Locker
	executor      ports.StepExecutor
	containers    ports.ContainerRuntime
	useContainers bool
	output        io.Writer
	profile       termenv.Profile
	logger        *slog.Logger
	printer       *presentation.Printer
	runner        *runner.Runner
}

// Option defines a functional option for configuring a Runfile.
type Option func(*Runfile)

// WithFetcher injects a custom document fetcher.
func WithFetcher(f ports.Fetcher) Option {
	return func(r *Runfile) {
		r.fetcher = f
	}
}

// WithCacheStore injects a custom cache store, bypassing the default
// file-backed store.
func WithCacheStore(s ports.CacheStore) Option {
	return func(r *Runfile) {
		r.store = s
	}
}

// WithLocker injects a custom cache locker.
func WithLocker(l ports.Locker) Option {
	return func(r *Runfile) {
		r.locker = l
	}
}

// WithStepExecutor injects a custom step executor.
func WithStepExecutor(e ports.StepExecutor) Option {
	return func(r *Runfile) {
		r.executor = e
	}
}

// WithContainerRuntime injects a container runtime and enables container
// execution for targets that declare a build specification.
func WithContainerRuntime(c ports.ContainerRuntime) Option {
	return func(r *Runfile) {
		r.containers = c
		r.useContainers = true
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runfile) {
		r.logger = logger
	}
}

// WithOutput redirects status and step output, which defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runfile) {
		r.output = w
	}
}

// WithColorProfile overrides the terminal color profile used for status
// lines. Use termenv.Ascii to disable color.
func WithColorProfile(profile termenv.Profile) Option {
	return func(r *Runfile) {
		r.profile = profile
	}
}

// New creates a Runfile for the document at path. The document is not
// loaded until Load is called.
func New(path string, opts ...Option) (*Runfile, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is required")
	}

	r := &Runfile{
		path:    path,
		output:  os.Stdout,
		profile: termenv.ColorProfile(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.fetcher == nil {
		r.fetcher = fetch.New()
	}
	if r.store == nil {
		r.store = file.New("")
	}
	if r.locker == nil {
		if s, ok := r.store.(*file.Store); ok {
			r.locker = file.NewLocker(filepath.Dir(s.Path))
		}
	}
	if r.executor == nil {
		execOpts := []exec.Option{exec.WithOutput(r.output)}
		if r.containers != nil {
			execOpts = append(execOpts, exec.WithContainerRuntime(r.containers))
		}
		r.executor = exec.New(execOpts...)
	}

	r.builder = document.NewBuilder(r.fetcher, r.logger)
	r.printer = presentation.NewPrinter(r.output, r.profile)

	engine := cache.NewEngine(r.store, r.locker, r.logger)
	runnerOpts := []runner.Option{}
	if r.useContainers {
		runnerOpts = append(runnerOpts, runner.WithContainers(r.containers))
	}
	r.runner = runner.New(engine, r.executor, r.printer, r.logger, runnerOpts...)

	return r, nil
}

// Load fetches and parses the document along with its include tree.
func (r *Runfile) Load(ctx context.Context) error {
	doc, err := r.builder.Load(ctx, r.path)
	if err != nil {
		return err
	}
	r.doc = doc
	return nil
}

// Update re-fetches every include from its source, replacing any locally
// synchronized content, then renames targets.
func (r *Runfile) Update(ctx context.Context) error {
	if r.doc == nil {
		if err := r.Load(ctx); err != nil {
			return err
		}
	}
	return r.builder.Refresh(ctx, r.doc)
}

// Save writes the canonical markdown rendering of the document back to
// its path. The write is atomic.
func (r *Runfile) Save() error {
	if r.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".runfile-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(r.doc.Markdown()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}

// Document returns the loaded root document, or nil before Load.
func (r *Runfile) Document() *domain.Document {
	return r.doc
}

// Targets returns the targets of the document and its whole include tree,
// implicit setup targets included, in document order.
func (r *Runfile) Targets() []*domain.Target {
	if r.doc == nil {
		return nil
	}
	var out []*domain.Target
	var walk func(d *domain.Document)
	walk = func(d *domain.Document) {
		out = append(out, d.Targets()...)
		for _, child := range d.Children() {
			walk(child)
		}
	}
	walk(r.doc)
	return out
}

// FindTargets resolves a match expression against the document tree.
func (r *Runfile) FindTargets(expr string) []*domain.Target {
	if r.doc == nil {
		return nil
	}
	return document.FindTargets(r.doc, expr)
}

// Run executes every target matching the expression, along with its
// dependencies, in topological order. Results cover all scheduled
// targets including cached ones.
func (r *Runfile) Run(ctx context.Context, expr string) ([]*domain.TargetResult, error) {
	if r.doc == nil {
		if err := r.Load(ctx); err != nil {
			return nil, err
		}
	}
	return r.runner.Run(ctx, r.doc, expr)
}

// PrintSummary writes an end-of-run summary for the results.
func (r *Runfile) PrintSummary(results []*domain.TargetResult, started time.Time) {
	r.printer.Summary(results, started)
}
