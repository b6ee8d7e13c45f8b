// deploy-service is the HTTP API server for resolving deployables and
// copying them into running application-server containers.
package main

import (
	"context"
	"deployables/internal/api"
	"deployables/internal/config"
	"deployables/internal/container/docker"
	"deployables/internal/deployable"
	"deployables/internal/deployment"
	"deployables/internal/health"
	"deployables/internal/observability"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	svcCfg := config.LoadServiceConfig()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: svcCfg.LogLevel})))

	if err := run(svcCfg); err != nil {
		slog.Error("Service failed", "error", err)
		os.Exit(1)
	}
}

func run(svcCfg *config.ServiceConfig) error {
	ctx := context.Background()

	// Load configuration
	resolveOpts := deployable.LoadOptionsFromEnv()
	deployCfg := deployment.LoadConfigFromEnv()
	dockerCfg := docker.LoadConfigFromEnv()

	// Setup metrics
	metrics, metricsHandler, err := observability.NewMetrics(ctx)
	if err != nil {
		return err
	}

	// Create Docker deployer
	deployer, err := docker.NewDeployer(dockerCfg)
	if err != nil {
		return err
	}
	defer deployer.Close()

	slog.Info("Connected to Docker daemon")

	// Docker is required; a missing Maven only degrades readiness since
	// file and URL deployables still resolve.
	checks := []health.Check{{Name: "docker", Checker: deployer}}
	if checker, ok := resolveOpts.Fetcher.(health.ReadinessChecker); ok {
		checks = append(checks, health.Check{Name: "maven", Checker: checker, Optional: true})
	}
	healthChecker := health.NewChecker(checks...)

	// Create deployment service
	resolver := deployable.NewResolver(resolveOpts, metrics)
	deploymentService := deployment.NewService(resolver, deployer, metrics, deployCfg)

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		DeploymentService: deploymentService,
		Metrics:           metrics,
		HealthChecker:     healthChecker,
		APIKey:            svcCfg.APIKey,
	})

	if svcCfg.APIKey != "" {
		slog.Info("API authentication enabled")
	} else {
		slog.Warn("API authentication disabled - no API_KEY configured")
	}

	// Maven fetches and downloads can take minutes; the write timeout covers both.
	apiServer := &http.Server{
		Addr:         ":" + svcCfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Create metrics server
	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", metricsHandler)
	metricsServer := &http.Server{
		Addr:         ":" + svcCfg.MetricsPort,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Channel to capture server errors
	serverErr := make(chan error, 2)

	// Start API server
	go func() {
		slog.Info("Starting API server", "port", svcCfg.Port, "defaultDirectory", deployCfg.DefaultDirectory)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Start metrics server
	go func() {
		slog.Info("Starting metrics server", "port", svcCfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// shutdown closes both servers gracefully
	shutdown := func(timeout time.Duration) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("API server shutdown error", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server shutdown error", "error", err)
		}
	}

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig)
	case err := <-serverErr:
		slog.Error("Server failed to start", "error", err)
		shutdown(5 * time.Second)
		return err
	}

	// Phase 1: Mark service as unhealthy for load balancer draining
	healthChecker.SetShuttingDown()

	// Wait for load balancers to stop sending traffic
	if svcCfg.ShutdownDrainWait > 0 {
		slog.Info("Waiting for traffic to drain", "duration", svcCfg.ShutdownDrainWait)
		time.Sleep(svcCfg.ShutdownDrainWait)
	}

	// Phase 2: Graceful shutdown - stop accepting new connections, finish in-flight requests
	slog.Info("Starting graceful shutdown")
	shutdown(25 * time.Second)

	// Deployed files stay in their containers; only the in-memory records are lost.
	slog.Info("Shutdown complete")
	return nil
}
