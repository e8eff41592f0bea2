package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "RESP listen address (overrides config)")
		metricsAddr = flag.String("metrics-addr", "", "HTTP metrics listen address (overrides config)")
		logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("respkv-server " + buildinfo.String())
		return nil
	}

	overrides := make(map[string]any)
	if *addr != "" {
		overrides["server.redis.addr"] = *addr
	}
	if *metricsAddr != "" {
		overrides["server.metrics.addr"] = *metricsAddr
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}

	loader, cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := log.Slog()

	log.Info("starting respkv-server", buildinfo.Get().LogAttrs()...)
	log.Info("effective configuration", config.Sanitize(cfg)...)

	store := memory.New()
	metrics := metric.NewRegistry()
	if err := metrics.Register(metric.NewCollector(store)); err != nil {
		return fmt.Errorf("register store collector: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout).WithLogger(slogLogger)

	// Hooks run in reverse order of registration.
	redisSrv := redisserver.New(redisConfig(cfg), store, metrics, slogLogger)
	if err := redisSrv.Start(context.Background()); err != nil {
		return err
	}
	shutdownHandler.OnShutdown("redis", func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return redisSrv.Shutdown(ctx)
	})

	if cfg.Server.Metrics.Addr != "" {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Ready:   func() bool { return redisSrv.Addr() != nil },
			Logger:  slogLogger,
		})
		httpSrv := httpserver.New(cfg.Server.Metrics.Addr, router, slogLogger)
		if err := httpSrv.Start(); err != nil {
			_ = redisSrv.Shutdown(context.Background())
			return err
		}
		shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
			log.Info("shutting down HTTP server")
			return httpSrv.Shutdown(ctx)
		})
	}

	if path := loader.FilePath(); path != "" {
		watcher, err := watchConfig(loader, slogLogger)
		if err != nil {
			log.Warn("config watch disabled", "path", path, "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file, environment and flag overrides.
func loadConfig(configFile string, overrides map[string]any) (*confloader.Loader, *config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	loader := confloader.NewLoader(opts...)

	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, nil, err
		}
	}

	if err := loader.Load(cfg); err != nil {
		return nil, nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return loader, cfg, nil
}

// initLogger initializes the structured logger and sets it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

func redisConfig(cfg *config.ServerConfig) *redisserver.Config {
	r := cfg.Server.Redis
	return &redisserver.Config{
		Address:        r.Addr,
		ReadBufferSize: r.ReadBuffer,
		MaxFrameSize:   r.MaxFrameSize,
		IdleTimeout:    r.IdleTimeout,
		WriteTimeout:   r.WriteTimeout,
		RateLimit:      r.RateLimit,
	}
}

// watchConfig reloads the config file on change. Only the log level is
// applied live; other settings take effect on restart.
func watchConfig(loader *confloader.Loader, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(loader.FilePath()); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		next := config.Default()
		if err := loader.Reload(next); err != nil {
			log.Error("config reload failed", "path", path, "error", err)
			return
		}
		if err := config.Verify(next); err != nil {
			log.Error("config reload rejected", "path", path, "error", err)
			return
		}
		if next.Log.Level != logger.GetLevel() {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "level", next.Log.Level)
		}
	})

	watcher.StartAsync()
	return watcher, nil
}
