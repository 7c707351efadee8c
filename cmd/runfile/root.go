package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/muesli/termenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/awkspace/runfile"
	"github.com/awkspace/runfile/internal/adapters/docker"
	"github.com/awkspace/runfile/internal/adapters/fetch"
	redisadapter "github.com/awkspace/runfile/internal/adapters/redis"
	"github.com/awkspace/runfile/internal/logging"
	"github.com/awkspace/runfile/internal/presentation"
	"github.com/awkspace/runfile/pkg/domain"
)

var rootCmd = &cobra.Command{
	Use:   "runfile [target]...",
	Short: "Run executable markdown documents",
	Long: `Runfile executes targets defined as sections of a markdown document.
Each second-level header names a target, its fenced code blocks are the
steps, and yaml blocks configure dependencies, caching and includes.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "Runfile.md", "Document to load")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL to use for the cache instead of the local file store")
	rootCmd.Flags().BoolP("update", "u", false, "Re-fetch all includes from their sources before running")
	rootCmd.Flags().Bool("containers", false, "Execute targets with build specifications in containers")
	rootCmd.Flags().BoolP("list-targets", "l", false, "List targets and exit")
	rootCmd.Flags().Bool("describe", false, "Print the full description of the matching targets and exit")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}

func buildRunfile(cmd *cobra.Command, logger *slog.Logger) (*runfile.Runfile, error) {
	path, _ := cmd.Flags().GetString("file")
	opts := []runfile.Option{runfile.WithLogger(logger)}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		opts = append(opts, runfile.WithColorProfile(termenv.Ascii))
	}

	if redisURL, _ := cmd.Flags().GetString("redis"); redisURL != "" {
		redisOpts, err := goredis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := goredis.NewClient(redisOpts)
		opts = append(opts,
			runfile.WithCacheStore(redisadapter.NewFromClient(client)),
			runfile.WithLocker(redisadapter.NewLocker(client, "runfile:lock:")),
		)
	}

	if containers, _ := cmd.Flags().GetBool("containers"); containers {
		runtime, err := docker.New(logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, runfile.WithContainerRuntime(runtime))
	}

	return runfile.New(path, opts...)
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)

	rf, err := buildRunfile(cmd, logger)
	if err != nil {
		return err
	}
	if err := rf.Load(ctx); err != nil {
		return err
	}
	if update, _ := cmd.Flags().GetBool("update"); update {
		if err := rf.Update(ctx); err != nil {
			return err
		}
	}

	// Loading is also a format pass: the document is rewritten in its
	// canonical rendering so includes and spacing stay normalized.
	path, _ := cmd.Flags().GetString("file")
	if !fetch.IsRemote(path) {
		if err := rf.Save(); err != nil {
			return err
		}
	}

	if describe, _ := cmd.Flags().GetBool("describe"); describe {
		if len(args) == 0 {
			return fmt.Errorf("describe requires at least one target expression")
		}
		for _, expr := range args {
			targets := rf.FindTargets(expr)
			if len(targets) == 0 {
				return &domain.TargetNotFoundError{Expression: expr}
			}
			if err := presentation.Describe(os.Stdout, targets); err != nil {
				return err
			}
		}
		return nil
	}

	if list, _ := cmd.Flags().GetBool("list-targets"); list {
		presentation.ListNames(os.Stdout, rf.Targets())
		return nil
	}
	if len(args) == 0 {
		presentation.ListWithDescriptions(os.Stdout, rf.Targets())
		return nil
	}

	started := time.Now()
	var all []*domain.TargetResult
	var runErr error
	for _, expr := range args {
		results, err := rf.Run(ctx, expr)
		all = append(all, results...)
		if err != nil {
			runErr = err
			break
		}
	}
	rf.PrintSummary(all, started)
	return runErr
}
