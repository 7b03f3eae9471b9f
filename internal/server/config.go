package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/internal/customfield/pluginloader"
	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/pkg/customfield"
)

// Config holds the API server settings.
type Config struct {
	RegistryFile   string
	PluginDir      string
	ReloadDebounce time.Duration
	// ReloadInterval, when positive, also reloads the registry on a
	// schedule, for filesystems that do not deliver change events.
	ReloadInterval time.Duration
}

// LoadTypes returns the built-in field types plus those of the plugins in
// dir. An empty dir loads no plugins.
func LoadTypes(dir string, logger *zap.SugaredLogger) (*customfield.Types, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	types := customfield.DefaultTypes()
	if dir == "" {
		return types, nil
	}
	names, err := pluginloader.LoadAll(dir, types, logger)
	if err != nil {
		return nil, fmt.Errorf("load plugins: %w", err)
	}
	if len(names) > 0 {
		logger.Infow("field type plugins loaded", "dir", dir, "types", names)
	}
	return types, nil
}

// NewStore builds the field types, loads plugins from PluginDir and the
// definitions in RegistryFile. Either may be empty.
func NewStore(cfg Config, logger *zap.SugaredLogger) (*fieldstore.Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	types, err := LoadTypes(cfg.PluginDir, logger)
	if err != nil {
		return nil, err
	}
	store := fieldstore.New(types, logger)
	if cfg.RegistryFile != "" {
		if err := fieldstore.LoadFile(store, cfg.RegistryFile); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Watch reloads RegistryFile into store on change, and every
// ReloadInterval when set, until ctx is done or the returned func is called.
func Watch(ctx context.Context, cfg Config, store *fieldstore.Store, logger *zap.SugaredLogger) (func(), error) {
	if cfg.RegistryFile == "" {
		return func() {}, nil
	}
	w := fieldstore.NewWatcher(cfg.RegistryFile, store, cfg.ReloadDebounce, logger)
	stop, err := w.Start(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.ReloadInterval <= 0 {
		return stop, nil
	}
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(cfg.ReloadInterval).WaitForSchedule().Do(w.Reload); err != nil {
		stop()
		return nil, fmt.Errorf("schedule reload: %w", err)
	}
	s.StartAsync()
	return func() {
		s.Stop()
		stop()
	}, nil
}
