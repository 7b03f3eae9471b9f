package events

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads YAML from file path. If path is empty, returns zero value.
func LoadConfig(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- operator supplied path
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	return c, err
}

// New builds a dispatcher for the enabled sinks of cfg. Undeliverable
// events are logged. A sink that cannot be created is logged and skipped.
func New(cfg Config, logger *zap.SugaredLogger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	var sinks []Sink
	if wh := NewWebhookSink(cfg.Sinks.Webhook); wh != nil {
		sinks = append(sinks, wh)
	}
	if rs, err := NewRedisSink(cfg.Sinks.Redis); err != nil {
		logger.Errorw("redis sink", "err", err)
	} else if rs != nil {
		sinks = append(sinks, rs)
	}
	if ks, err := NewKafkaSink(cfg.Sinks.Kafka); err != nil {
		logger.Errorw("kafka sink", "err", err)
	} else if ks != nil {
		sinks = append(sinks, ks)
	}
	return NewDispatcher(cfg, &LogDLQ{Logger: logger}, sinks...)
}
