// Package main provides the entry point for the molscope MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidkellner/molscope/internal/agent"
	"github.com/davidkellner/molscope/internal/cache"
	"github.com/davidkellner/molscope/internal/config"
	"github.com/davidkellner/molscope/internal/llm"
	"github.com/davidkellner/molscope/internal/metrics"
	"github.com/davidkellner/molscope/internal/pipeline"
	"github.com/davidkellner/molscope/internal/server"
	"github.com/davidkellner/molscope/internal/sources"
	"github.com/davidkellner/molscope/internal/tools"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanup() }()

	// Log startup info
	logger.Info("molscope starting",
		"version", version,
		"source_mode", cfg.SourceMode,
		"llm_provider", cfg.LLMProvider,
		"agent_mode", cfg.AgentMode,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create the LLM model. Both synthesis and (in live mode) mechanism
	// prediction need it.
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to create LLM model", "error", err)
		os.Exit(1)
	}
	logger.Info("model initialized", "model", model.Model())

	// Create source adapters for the configured mode
	set, err := sources.New(cfg, model, logger)
	if err != nil {
		logger.Error("failed to create sources", "error", err)
		os.Exit(1)
	}

	// Optionally wrap the sources in a lookup cache
	switch cfg.CacheBackend {
	case config.CacheMemory:
		set = sources.WithCache(set, cache.NewMemory(), logger)
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
			logger.Error("failed to connect lookup cache", "error", err)
			os.Exit(1)
		}
		defer func() {
			logger.Info("closing lookup cache")
			_ = store.Close(ctx)
		}()
		set = sources.WithCache(set, store, logger)
	}

	// Assemble the pipeline with the synthesis agent
	synth := agent.New(model, set, cfg, logger)
	p := pipeline.New(set, synth, metrics.NewCollector(), logger)

	// Create and setup server
	srv := server.New(version, logger)
	srv.Setup()

	// Register tools
	deps := &tools.Dependencies{
		Sources:  set,
		Pipeline: p,
		Logger:   logger,
	}
	tools.RegisterAll(srv.MCPServer(), deps)
	logger.Info("tools registered", "count", 5)

	// Log ready state
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
