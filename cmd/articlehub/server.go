package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"articlehub/internal/backend"
	"articlehub/internal/cache"
	"articlehub/internal/metrics"
	"articlehub/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the articles API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewCollector(reg)

		b, err := backend.New(cfg, log, collector)
		if err != nil {
			return err
		}
		defer b.Close()

		var svc backend.Service = b
		if cfg.RedisAddr != "" {
			rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer rdb.Close()
			svc = cache.New(b, rdb, cfg.CacheTTL, log, collector)
			log.Info("List cache enabled", zap.String("redis", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}

		srv := server.NewServer(svc, b.Mode(), log, collector, reg)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", zap.Error(err))
			return err
		}
		log.Info("Goodbye!")
		return nil
	},
}
