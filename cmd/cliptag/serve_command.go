package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cliptag/internal/analysis"
	"cliptag/internal/clipstore"
	"cliptag/internal/httpapi"
	"cliptag/internal/library"
	"cliptag/internal/logging"
	"cliptag/internal/textutil"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), ctx, bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides paths.api_bind)")
	return cmd
}

func runServer(cmdCtx context.Context, ctx *commandContext, bind string) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loaded, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := *loaded
	if bind != "" {
		cfg.Paths.APIBind = bind
	}

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := clipstore.Open(&cfg)
	if err != nil {
		logger.Error("open clip store", logging.Error(err))
		return err
	}
	defer store.Close()

	analyzer := analysis.Build(&cfg, logger, analysis.BuildOptions{})
	lib, err := library.New(&cfg, store, analyzer, logger)
	if err != nil {
		return fmt.Errorf("create library: %w", err)
	}
	if err := lib.Open(signalCtx); err != nil {
		return err
	}
	defer lib.Close()

	server, err := httpapi.New(&cfg, lib, logger)
	if err != nil {
		return fmt.Errorf("create api server: %w", err)
	}
	if err := server.Start(signalCtx); err != nil {
		return err
	}
	defer server.Stop()

	logger.Info("cliptag server started",
		logging.String("address", server.Addr()),
		logging.String("ai_tier", textutil.Ternary(cfg.AIConfigured(), "enabled", "unavailable")),
		logging.String("upload_dir", lib.UploadDir()),
	)

	<-signalCtx.Done()
	logger.Info("cliptag server shutting down")
	return nil
}
