package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/observability"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/quote"
	"github.com/tresgarza/fincentiva-feb21-2025-sub000/internal/server"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the quote HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			if address != "" {
				conf.Server.Address = address
			}
			serverConfig, err := server.NewConfig(conf.Server)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracer, err := observability.InitTracer(ctx, conf.Tracing)
			if err != nil {
				return err
			}
			defer func() {
				_ = shutdownTracer(context.Background())
			}()

			metrics := observability.NewMetrics()

			store, closeStore, err := buildStore(ctx, conf, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			planCache, closeCache, err := buildCache(ctx, conf.Cache, logger)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeCache()
			}()

			svc := quote.NewService(store, planCache, metrics, logger)
			srv := &http.Server{
				Addr:         serverConfig.Address,
				Handler:      server.NewHandler(svc, metrics, logger, serverConfig.MaxBodyBytes(), version),
				ReadTimeout:  serverConfig.ReadTimeout,
				WriteTimeout: serverConfig.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting",
					zap.String("op", "main.serve"),
					zap.String("address", serverConfig.Address),
					zap.Int64("maxBodyBytes", serverConfig.MaxBodyBytes()),
					zap.String("cache", conf.Cache.Backend),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}

			logger.Info("server shutting down",
				zap.String("op", "main.serve"),
			)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			logger.Info("server stopped",
				zap.String("op", "main.serve"),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
