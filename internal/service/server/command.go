package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	keypad "github.com/oshokin/zone-alarm/internal/api/grpc/keypad"
	"github.com/oshokin/zone-alarm/internal/config"
	"github.com/oshokin/zone-alarm/internal/logger"
)

// Options controls the alarm-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// MetricsAddress overrides the metrics listen address from the configuration.
	MetricsAddress string
}

const metricsShutdownTimeout = 5 * time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the alarm clock and the gRPC server and blocks until ctx is
// canceled or the server stops.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "alarm-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	metricsAddress := settings.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	promRegistry := prometheus.NewRegistry()
	svc := newService(promRegistry, time.Local)

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	if err = svc.clock.Start(ctx); err != nil {
		_ = lis.Close()

		return fmt.Errorf("start alarm clock: %w", err)
	}
	defer svc.clock.Stop()

	if metricsAddress != "" {
		stopMetrics := serveMetrics(ctx, metricsAddress, promRegistry)
		defer stopMetrics()
	}

	grpcServer := grpc.NewServer()
	keypad.RegisterKeypadServer(grpcServer, keypad.NewServer(svc.session, svc.hub))

	logger.InfoKV(ctx, "Alarm server listening", "listen_address", listenAddress, "metrics_address", metricsAddress)

	// Closed once Stop returns.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down gRPC server")
		// Watch streams only end when their clients leave, so do not wait for them.
		grpcServer.Stop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "GRPC server stopped")

	return nil
}

// serveMetrics exposes the Prometheus registry over HTTP and returns a stop function.
func serveMetrics(ctx context.Context, address string, gatherer prometheus.Gatherer) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Bind on all interfaces.
	return ":" + port, nil
}
