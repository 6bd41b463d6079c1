package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cliptag/internal/analysis"
	"cliptag/internal/clipstore"
	"cliptag/internal/config"
	"cliptag/internal/library"
	"cliptag/internal/logging"
	"cliptag/internal/textutil"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// cliLogger writes to stderr only. Without --verbose just warnings show so
// command output stays readable.
func (c *commandContext) cliLogger(cfg *config.Config) *slog.Logger {
	verbose := c.verbose != nil && *c.verbose
	logger, err := logging.New(logging.Options{
		Level:       textutil.Ternary(verbose, cfg.Logging.Level, "warn"),
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

type libraryHandle struct {
	lib   *library.Library
	store *clipstore.Store
}

func (h *libraryHandle) Close() {
	h.lib.Close()
	_ = h.store.Close()
}

// openLibrary opens the store and builds a library for CLI use. Mutating
// commands pass exclusive so they fail while a server owns the library.
// Startup pruning only happens on `serve` or `clips prune`.
func (c *commandContext) openLibrary(ctx context.Context, exclusive bool) (*libraryHandle, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cliCfg := *cfg
	cliCfg.Library.ValidateOnStart = false
	logger := c.cliLogger(&cliCfg)

	store, err := clipstore.Open(&cliCfg)
	if err != nil {
		return nil, fmt.Errorf("open clip store: %w", err)
	}
	analyzer := analysis.Build(&cliCfg, logger, analysis.BuildOptions{})
	lib, err := library.New(&cliCfg, store, analyzer, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if exclusive {
		if err := lib.Open(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open library (is `cliptag serve` running?): %w", err)
		}
	}
	return &libraryHandle{lib: lib, store: store}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}
