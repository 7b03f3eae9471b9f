package events

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/pkg/metrics"
)

// Names of the events published for field changes.
const (
	FieldUpserted = "field.upserted"
	FieldRemoved  = "field.removed"
)

// Event represents a notification payload.
type Event struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
	Data any       `json:"data"`
	ID   string    `json:"id"`
}

// Sink publishes events.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// DLQ stores events that could not be delivered.
type DLQ interface {
	Store(ctx context.Context, e Event, attempts int, lastErr string) error
}

// Dispatcher broadcasts events to multiple sinks with retries.
type Dispatcher struct {
	sinks        []Sink
	maxAttempts  int
	initialDelay time.Duration
	dlq          DLQ
	wg           sync.WaitGroup
}

// Config provides dispatcher settings.
type Config struct {
	Sinks struct {
		Webhook WebhookConfig `yaml:"webhook"`
		Redis   RedisConfig   `yaml:"redis"`
		Kafka   KafkaConfig   `yaml:"kafka"`
	} `yaml:"sinks"`
	Retry RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// NewDispatcher creates a dispatcher from sinks and retry config.
func NewDispatcher(cfg Config, dlq DLQ, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{maxAttempts: 3, initialDelay: time.Second}
	if cfg.Retry.MaxAttempts > 0 {
		d.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		d.initialDelay = cfg.Retry.InitialDelay
	}
	d.sinks = append(d.sinks, sinks...)
	d.dlq = dlq
	return d
}

// Sinks returns the number of configured sinks.
func (d *Dispatcher) Sinks() int { return len(d.sinks) }

// Dispatch sends the event to all sinks asynchronously.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	for _, s := range d.sinks {
		d.wg.Add(1)
		go d.retrySend(ctx, s, e)
	}
}

// Wait blocks until every dispatched event was delivered or dead-lettered.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close waits for pending deliveries and closes the sinks that hold
// connections.
func (d *Dispatcher) Close() error {
	d.Wait()
	var errs []error
	for _, s := range d.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) retrySend(ctx context.Context, s Sink, e Event) {
	defer d.wg.Done()
	delay := d.initialDelay
	var err error
	for i := 1; i <= d.maxAttempts; i++ {
		if err = s.Emit(ctx, e); err == nil {
			metrics.EventsPublished.WithLabelValues(e.Name, "ok").Inc()
			return
		}
		if i == d.maxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			err = ctx.Err()
			i = d.maxAttempts
		}
		delay *= 2
	}
	metrics.EventsPublished.WithLabelValues(e.Name, "error").Inc()
	if d.dlq != nil {
		_ = d.dlq.Store(ctx, e, d.maxAttempts, err.Error())
	}
}

// LogDLQ records undelivered events in the log.
type LogDLQ struct {
	Logger *zap.SugaredLogger
}

func (q *LogDLQ) Store(ctx context.Context, e Event, attempts int, lastErr string) error {
	if q == nil || q.Logger == nil {
		return nil
	}
	q.Logger.Errorw("event dropped", "name", e.Name, "id", e.ID, "attempts", attempts, "err", lastErr)
	return nil
}

// Forward publishes every change of store until ctx is done.
func Forward(ctx context.Context, store *fieldstore.Store, d *Dispatcher) {
	ch, unsub := store.Subscribe()
	go func() {
		defer unsub()
		for {
			select {
			case ev, ok := <-ch:
				if !ok {
					return
				}
				d.Dispatch(ctx, fromStore(ev))
			case <-ctx.Done():
				return
			}
		}
	}()
}

func fromStore(ev fieldstore.Event) Event {
	if ev.Type == "remove" {
		return Event{Name: FieldRemoved, Data: map[string]string{"handle": ev.Handle}}
	}
	return Event{Name: FieldUpserted, Data: ev.Field.Meta()}
}
