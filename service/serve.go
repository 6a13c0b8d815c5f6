package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inkpot/app/logging"
	"inkpot/app/repositories"
	"inkpot/app/routes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			store, err := repositories.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			router, err := routes.Setup(routes.App{
				Config:   cfg,
				Posts:    store.Posts(),
				Comments: store.Comments(),
				Users:    store.Users(),
				Sessions: store.Sessions(),
				Logger:   logger,
				Registry: registry,
			})
			if err != nil {
				return fmt.Errorf("failed to set up routes: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting inkpot", "addr", cfg.Addr, "db", cfg.DBPath, "version", Version)
			return routes.StartServer(ctx, cfg.Addr, router, cfg.ShutdownTimeout, logger)
		},
	}
}
