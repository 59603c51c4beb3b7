package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"blueblog/framework/httpserver"
	"blueblog/internal/telemetry"
	"blueblog/internal/web"
	"blueblog/internal/web/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()

	shutdownTracing, err := telemetry.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", zap.Error(err))
		}
	}()

	b, err := openBlog(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	handler, err := newServeHandler(b, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           otelhttp.NewHandler(handler, "blueblog"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("blog server listening", zap.String("addr", cfg.ListenAddr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("blog server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// newServeHandler wires the page routes behind the request id, access log
// and metrics middleware and exposes reg on /metrics.
func newServeHandler(b *blog, reg *prometheus.Registry) (http.Handler, error) {
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}

	metrics, err := middleware.NewMetrics(reg, web.RouteLabel)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return web.NewHandler(web.HandlerConfig{
		AppContext: b.appCtx,
		StaticDir:  b.cfg.StaticDir,
		CacheHTML:  b.cfg.CacheHTML,
		Mounts: []httpserver.Mount{{
			Pattern:     middleware.MetricsPath,
			Handler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			CachePolicy: "no-store",
		}},
		Middleware: []httpserver.Middleware{
			middleware.RequestID,
			middleware.AccessLog(logger),
			metrics.Handler,
		},
		Logger: logger,
	})
}
