package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gobeaver/beaver-social/cache"
	"github.com/gobeaver/beaver-social/oauth"
)

func newServeCmd(prefix *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /login/{type}, /callback and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *prefix, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func serve(ctx context.Context, prefix, addr string) error {
	cfg, err := oauth.WithPrefix(prefix).Config()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := oauth.NewMetrics(reg)
	if err != nil {
		return err
	}

	registry, err := oauth.NewRegistryFromConfig(cfg, oauth.WithLogger(logger), oauth.WithMetrics(metrics))
	if err != nil {
		return err
	}

	store, err := cache.WithPrefix(prefix).New()
	if err != nil {
		return err
	}
	defer store.Close()

	handshakes, err := oauth.NewHandshakeStore(store, []byte(cfg.SecretKey), cfg.HandshakeTTL)
	if err != nil {
		return fmt.Errorf("%sOAUTH_SECRET_KEY: %w", prefix, err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(registry, handshakes, reg, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", addr), slog.Int("providers", len(registry.Providers())))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("stopped")
	return nil
}
