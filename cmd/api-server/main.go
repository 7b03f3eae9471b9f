package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/internal/auth"
	"github.com/faciam-dev/matchinput/internal/customfield/pluginloader"
	"github.com/faciam-dev/matchinput/internal/events"
	"github.com/faciam-dev/matchinput/internal/logger"
	"github.com/faciam-dev/matchinput/internal/server"
	"github.com/faciam-dev/matchinput/pkg/util"
)

func main() {
	addr := flag.String("addr", util.GetEnv("MATCHINPUT_ADDR", ":8080"), "listen address")
	registryFile := flag.String("registry", util.GetEnv("MATCHINPUT_REGISTRY", "registry.yaml"), "registry YAML file")
	pluginDir := flag.String("plugins", util.GetEnv("MATCHINPUT_PLUGIN_DIR", pluginloader.DefaultDir()), "field type plugin directory")
	logLevel := flag.String("log-level", util.GetEnv("LOG_LEVEL", "info"), "log level (debug|info|warn|error)")
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	logger.Set(logger.New(*logLevel))

	zl, err := zap.NewProduction()
	if err != nil {
		logger.L.Error("zap logger", "err", err)
		os.Exit(1)
	}
	defer zl.Sync() //nolint:errcheck
	sugar := zl.Sugar()

	cfg := server.Config{
		RegistryFile:   *registryFile,
		PluginDir:      *pluginDir,
		ReloadDebounce: util.GetEnvDuration("MATCHINPUT_RELOAD_DEBOUNCE", 500*time.Millisecond),
		ReloadInterval: util.GetEnvDuration("MATCHINPUT_RELOAD_INTERVAL", 0),
	}
	if *openapi != "" {
		// the document only depends on the registered operations
		cfg.RegistryFile = ""
	}

	store, err := server.NewStore(cfg, sugar)
	if err != nil {
		logger.L.Error("load registry", "file", cfg.RegistryFile, "err", err)
		os.Exit(1)
	}
	var opts []server.Option
	if secret := os.Getenv("MATCHINPUT_JWT_SECRET"); secret != "" {
		opts = append(opts, server.WithAuth(auth.NewJWT(secret, time.Hour)))
	}
	api := server.New(store, opts...)

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		p := filepath.Clean(*openapi)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stopWatch, err := server.Watch(ctx, cfg, store, sugar)
	if err != nil {
		logger.L.Error("watch registry", "file", cfg.RegistryFile, "err", err)
		os.Exit(1)
	}
	defer stopWatch()

	evtConf, err := events.LoadConfig(os.Getenv("MATCHINPUT_EVENTS_CONFIG"))
	if err != nil {
		logger.L.Error("events config", "err", err)
		os.Exit(1)
	}
	if d := events.New(evtConf, sugar); d.Sinks() > 0 {
		events.Forward(ctx, store, d)
		logger.L.Info("publishing field changes", "sinks", d.Sinks())
		defer func() {
			if err := d.Close(); err != nil {
				logger.L.Error("close event sinks", "err", err)
			}
		}()
	}

	logger.L.Info("listening", "addr", *addr, "registry", cfg.RegistryFile, "fields", len(store.List()))
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.Adapter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("shutdown", "err", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
