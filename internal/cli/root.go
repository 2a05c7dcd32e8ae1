// Package cli provides the command-line interface for molscope.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/davidkellner/molscope/internal/agent"
	"github.com/davidkellner/molscope/internal/cache"
	"github.com/davidkellner/molscope/internal/config"
	"github.com/davidkellner/molscope/internal/llm"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/pipeline"
	"github.com/davidkellner/molscope/internal/sources"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and logger, set up in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	logFinish func() error

	// Lazy-initialized cache store, closed in PersistentPostRun
	cacheStore cache.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "molscope",
	Short: "Molecule analysis pipeline",
	Long: `Molscope analyzes small molecules from SMILES strings: it resolves the
structure, gathers bioactivity data, predicted properties, and a likely
mechanism of action, and synthesizes an answer to your question with an LLM.

Runs against live data sources or bundled fixtures (the default), selected
with MOLSCOPE_SOURCE_MODE=live|mock.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logFinish = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cacheStore != nil {
			if err := cacheStore.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close cache: %v\n", err)
			}
		}
		if logFinish != nil {
			_ = logFinish()
		}
	},
}

// buildSources creates the source set for the configured mode, wrapped in a
// cache when one is configured. The LLM model is only constructed when a
// component actually needs it.
func buildSources(ctx context.Context) (*sources.Set, *llm.Model, error) {
	var model *llm.Model
	if cfg.SourceMode == config.SourceLive {
		var err error
		model, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("init model: %w", err)
		}
	}

	set, err := sources.New(cfg, model, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init sources: %w", err)
	}

	switch cfg.CacheBackend {
	case config.CacheMemory:
		cacheStore = cache.NewMemory()
		set = sources.WithCache(set, cacheStore, logger)
	case config.CacheSurreal:
		store, err := cache.NewSurreal(ctx, cache.SurrealConfig{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		cacheStore = store
		set = sources.WithCache(set, cacheStore, logger)
	}

	return set, model, nil
}

// buildPipeline assembles the full pipeline with the synthesis agent.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	set, model, err := buildSources(ctx)
	if err != nil {
		return nil, err
	}

	if model == nil {
		model, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}

	synth := agent.New(model, set, cfg, logger)
	return pipeline.New(set, synth, metrics.NewCollector(), logger), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(resolveCmd)
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
