package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/refscope/refscope-mcp/internal/audit"
	"github.com/refscope/refscope-mcp/internal/config"
	"github.com/refscope/refscope-mcp/internal/logger"
	"github.com/refscope/refscope-mcp/internal/mcp"
	"github.com/refscope/refscope-mcp/internal/resolver"
	"github.com/refscope/refscope-mcp/internal/source"
	"github.com/refscope/refscope-mcp/internal/tools"
	"github.com/refscope/refscope-mcp/internal/tools/analysis"
	"github.com/refscope/refscope-mcp/internal/tools/diagnostics"
	"github.com/refscope/refscope-mcp/internal/tools/workspace"
	"github.com/refscope/refscope-mcp/internal/watcher"
	"github.com/refscope/refscope-mcp/internal/xref"
	"github.com/refscope/refscope-mcp/pkg/version"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the yaml config file")
	logLevel := flag.String("log-level", "", "override the configured log level")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("refscope-mcp %s\n", version.Version)
		return
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	// Stdout carries the protocol; everything else goes to stderr.
	logger.Init(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: "text",
		Output: os.Stderr,
	})

	if err := run(cfg); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store *audit.Store
	if cfg.Audit.Enabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return fmt.Errorf("prepare state dir: %w", err)
		}
		s, err := audit.NewStore(cfg.Audit.DBPath)
		if err != nil {
			// Auditing is best-effort; analysis still works without it.
			logger.Warn("audit store unavailable", "error", err)
		} else {
			store = s
			defer store.Close()
		}
	}

	manager := resolver.NewManager(cfg.Engine)
	defer manager.Close(context.Background())

	snippets := source.NewProvider("")
	analyzer := xref.New(manager, cfg.Analysis).WithSnippets(snippets)

	var fw *watcher.Watcher
	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Watcher, func(batch watcher.Batch) {
			if len(batch.Manifests) > 0 {
				logger.Info("project manifests changed, reloading solution",
					"changed", len(batch.Manifests))
				if _, err := manager.Reload(ctx); err != nil {
					logger.Error("automatic reload failed", "error", err)
				}
				return
			}
			logger.Debug("source files changed", "changed", len(batch.Sources))
		})
		if err != nil {
			logger.Warn("file watcher unavailable", "error", err)
		} else {
			fw = w
			fw.Start(ctx)
			defer fw.Stop()
		}
	}

	var rootMu sync.Mutex
	watchRoot := ""
	onLoaded := func(info *resolver.SnapshotInfo) {
		root := filepath.Dir(info.Path)
		snippets.SetRoot(root)

		if fw == nil {
			return
		}
		rootMu.Lock()
		defer rootMu.Unlock()
		if watchRoot == root {
			return
		}
		if watchRoot != "" {
			fw.RemoveRoot(watchRoot)
		}
		if err := fw.AddRoot(root); err != nil {
			logger.Warn("failed to watch solution root", "root", root, "error", err)
			return
		}
		watchRoot = root
	}

	registry := tools.NewRegistry()
	if store != nil {
		registry.SetRecorder(store)
	}

	if err := analysis.RegisterAll(registry, analyzer); err != nil {
		return err
	}
	if err := diagnostics.RegisterAll(registry, manager); err != nil {
		return err
	}
	wsOpts := workspace.Options{OnLoaded: onLoaded}
	if store != nil {
		wsOpts.Recorder = store
		wsOpts.Activity = store
	}
	if err := workspace.RegisterAll(registry, manager, wsOpts); err != nil {
		return err
	}
	if err := registry.Register(tools.NewHealthTool(func() map[string]interface{} {
		return map[string]interface{}{
			"engine":   manager.Stats(),
			"circuit":  manager.CircuitState(),
			"solution": manager.SolutionPath(),
		}
	})); err != nil {
		return err
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		os.Stdin.Close()
	}()

	logger.Info("refscope-mcp serving on stdio",
		"version", version.Version,
		"tools", len(registry.Names()))

	server := mcp.NewServer(registry)
	err := server.ProcessStream(ctx, os.Stdin, os.Stdout)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "refscope.yaml"
	}
	return filepath.Join(home, ".refscope", "config.yaml")
}
