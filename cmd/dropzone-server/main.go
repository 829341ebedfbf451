// Package main provides the entry point for dropzone-server, the
// volatile multi-tenant relay service.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/service"
	"github.com/rambotech/dropzone-go/internal/infra/buildinfo"
	"github.com/rambotech/dropzone-go/internal/infra/confloader"
	"github.com/rambotech/dropzone-go/internal/infra/shutdown"
	"github.com/rambotech/dropzone-go/internal/infra/tlsroots"
	"github.com/rambotech/dropzone-go/internal/server/config"
	"github.com/rambotech/dropzone-go/internal/server/httpserver"
	"github.com/rambotech/dropzone-go/internal/storage/blobfile"
	"github.com/rambotech/dropzone-go/internal/storage/memory"
	"github.com/rambotech/dropzone-go/internal/telemetry/logger"
	"github.com/rambotech/dropzone-go/internal/telemetry/metric"
)

// spillThreshold is the payload size above which bytes move to the
// blob sidecar when one is configured.
const spillThreshold = 256 << 10

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("dropzone-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	logger.SetDefault(log)

	log.Info("starting dropzone-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	storeOpts := []memory.Option{
		memory.WithMaxZones(cfg.Limits.MaxZones),
		memory.WithDefaultLimits(cfg.Limits.ZoneLimits()),
	}
	if cfg.Storage.BlobDir != "" {
		blobs, err := blobfile.New(cfg.Storage.BlobDir, cfg.Storage.BlobShards)
		if err != nil {
			return fmt.Errorf("init blob store: %w", err)
		}
		storeOpts = append(storeOpts, memory.WithBlobStore(blobs, spillThreshold))
		log.Info("blob sidecar enabled",
			"dir", cfg.Storage.BlobDir,
			"shards", cfg.Storage.BlobShards)
	}
	store := memory.NewRegistry(storeOpts...)

	watch := service.NewWatchService(
		service.WithLockoutPolicy(
			cfg.Security.MaxFailedAttempts,
			time.Duration(cfg.Security.LockoutSeconds)*time.Second,
		),
	)

	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewStatsCollector(store)); err != nil {
		return fmt.Errorf("register stats collector: %w", err)
	}

	svc := service.NewZoneService(store, watch, log, metrics)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Service:            svc,
		Logger:             log,
		Metrics:            metrics,
		AccessToken:        cfg.Security.AccessToken,
		AdminToken:         cfg.Security.AdminToken,
		RateLimitPerSecond: cfg.Security.RateLimitPerSecond,
		RateLimitBurst:     cfg.Security.RateLimitBurst,
	})
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	// The admin shutdown endpoint flips the service flag; translate
	// that into the same drain path the signals use.
	go func() {
		<-svc.ShutdownChan()
		shutdownHandler.Trigger()
	}()

	if *configFile != "" {
		watcher, err := startConfigWatcher(*configFile, watch)
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	serveTLS := cfg.Server.HTTP.TLSCertFile != ""
	if serveTLS {
		certWatcher, err := tlsroots.NewWatcher(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		certWatcher.StartAsync()
		shutdownHandler.OnShutdown(func(context.Context) error {
			certWatcher.Stop()
			return nil
		})
		httpServer.SetTLSConfig(&tls.Config{
			GetCertificate: certWatcher.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		})
	}

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", serveTLS)

		var err error
		if serveTLS {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment over the
// defaults.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// startConfigWatcher hot-reloads the log level and lockout policy
// when the config file changes. Other settings require a restart.
func startConfigWatcher(configFile string, watch *service.WatchService) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher.OnChange(func(string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			logger.Default().Warn("config reload rejected", "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		watch.SetPolicy(
			cfg.Security.MaxFailedAttempts,
			time.Duration(cfg.Security.LockoutSeconds)*time.Second,
		)
		logger.Default().Info("configuration reloaded",
			"log_level", cfg.Log.Level,
			"max_failed_attempts", cfg.Security.MaxFailedAttempts)
	})
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}
	watcher.StartAsync()
	return watcher, nil
}
