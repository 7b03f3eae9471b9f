package pluginloader

import (
	"errors"
	"os"
	"path/filepath"
	"plugin"
	"runtime"

	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/pkg/customfield"
)

// DefaultDir returns the path where field type plugins are stored for the
// current OS.
func DefaultDir() string {
	if runtime.GOOS == "windows" {
		dir := os.Getenv("APPDATA")
		if dir == "" {
			if h, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(h, "AppData", "Roaming")
			}
		}
		return filepath.Join(dir, "matchinput", "plugins")
	}
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".matchinput", "plugins")
	}
	return "./plugins"
}

// LoadAll opens every *.so in dir and registers the field type returned by
// its exported `New func() customfield.FieldType`. If dir is empty,
// DefaultDir() is used. Broken plugins and duplicate names are logged and
// skipped; any other registration error is returned. It returns the names
// it registered.
func LoadAll(dir string, types *customfield.Types, logger *zap.SugaredLogger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if dir == "" {
		dir = DefaultDir()
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		logger.Warnw("failed to read plugin directory", "dir", dir, "err", err)
	}
	var loaded []string
	for _, f := range files {
		p, err := plugin.Open(f)
		if err != nil {
			logger.Warnw("plugin open failed", "file", f, "err", err)
			continue
		}
		sym, err := p.Lookup("New")
		if err != nil {
			logger.Warnw("symbol missing", "file", f, "err", err)
			continue
		}
		ctor, ok := sym.(func() customfield.FieldType)
		if !ok {
			logger.Warnw("invalid type", "file", f)
			continue
		}
		ft := ctor()
		if err := types.Register(ft); err != nil {
			if errors.Is(err, customfield.ErrTypeExists) {
				logger.Warnw("field type already registered", "name", ft.Name(), "file", f)
				continue
			}
			return loaded, err
		}
		loaded = append(loaded, ft.Name())
		logger.Infow("field type plugin loaded", "name", ft.Name(), "file", f)
	}
	return loaded, nil
}
