package fieldstore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/metrics"
	"github.com/faciam-dev/matchinput/pkg/registry"
)

// Event reports a change to the configured fields.
type Event struct {
	Type   string // upsert | remove
	Handle string
	Field  customfield.Field
}

// Store holds the configured fields by handle. Every definition is built
// through its field type before it is stored, so a stored field is always
// valid.
type Store struct {
	types  *customfield.Types
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	items map[string]customfield.Field
	subs  map[*subscriber]struct{}
	etag  string
}

func New(types *customfield.Types, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &Store{
		types:  types,
		logger: logger,
		items:  make(map[string]customfield.Field),
		subs:   make(map[*subscriber]struct{}),
	}
	s.etag = computeStateHash(s.items)
	return s
}

// Types returns the field types the store builds with.
func (s *Store) Types() *customfield.Types { return s.types }

// Check builds meta without storing it.
func (s *Store) Check(meta registry.FieldMeta) (customfield.Field, error) {
	f, err := s.types.Build(meta)
	if err != nil {
		metrics.FieldConfigErrors.WithLabelValues(meta.Type).Inc()
		return nil, err
	}
	return f, nil
}

// Load replaces the stored fields with metas. Nothing changes unless every
// definition builds; the returned error joins all failures.
func (s *Store) Load(metas []registry.FieldMeta) error {
	built := make(map[string]customfield.Field, len(metas))
	var errs []error
	for _, m := range metas {
		f, err := s.Check(m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built[m.Handle] = f
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	var removes []string
	s.mu.RLock()
	for h := range s.items {
		if _, ok := built[h]; !ok {
			removes = append(removes, h)
		}
	}
	s.mu.RUnlock()
	changed := s.apply(built, removes)
	s.logger.Infow("fields loaded", "count", len(built), "changed", changed, "removed", len(removes))
	return nil
}

// Upsert builds and stores a single definition.
func (s *Store) Upsert(meta registry.FieldMeta) error {
	f, err := s.Check(meta)
	if err != nil {
		return err
	}
	s.apply(map[string]customfield.Field{meta.Handle: f}, nil)
	return nil
}

// Remove deletes the field with the given handle. It reports whether it existed.
func (s *Store) Remove(handle string) bool {
	s.mu.RLock()
	_, ok := s.items[handle]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	s.apply(nil, []string{handle})
	return true
}

// apply stores upserts and drops removes. Upserts whose definition equals
// the stored one keep the stored field and send no event. It returns the
// number of handles that changed.
func (s *Store) apply(upserts map[string]customfield.Field, removes []string) int {
	s.mu.Lock()
	changed := make(map[string]customfield.Field, len(upserts))
	for h, f := range upserts {
		if cur, ok := s.items[h]; ok && sameDefinition(cur.Meta(), f.Meta()) {
			continue
		}
		s.items[h] = f
		changed[h] = f
	}
	var removed []string
	for _, h := range removes {
		if _, ok := s.items[h]; ok {
			delete(s.items, h)
			removed = append(removed, h)
		}
	}
	if len(changed) == 0 && len(removed) == 0 {
		s.mu.Unlock()
		return 0
	}
	s.etag = computeStateHash(s.items)
	counts := make(map[string]int)
	for _, f := range s.items {
		counts[f.Meta().Type]++
	}
	subs := cloneSubs(s.subs)
	s.mu.Unlock()

	metrics.SetFieldCounts(counts)
	for h, f := range changed {
		broadcast(subs, Event{Type: "upsert", Handle: h, Field: f})
	}
	for _, h := range removed {
		broadcast(subs, Event{Type: "remove", Handle: h})
	}
	return len(changed) + len(removed)
}

// sameDefinition compares two definitions of one handle. UIDs are left out:
// the codec generates one for every field that has none, on each read.
func sameDefinition(a, b registry.FieldMeta) bool {
	a.UID, b.UID = "", ""
	return a == b
}

// Field returns the configured field for handle.
func (s *Store) Field(handle string) (customfield.Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.items[handle]
	return f, ok
}

// Fields returns every configured field sorted by handle.
func (s *Store) Fields() []customfield.Field {
	s.mu.RLock()
	out := make([]customfield.Field, 0, len(s.items))
	for _, f := range s.items {
		out = append(out, f)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Meta().Handle < out[j].Meta().Handle })
	return out
}

// List returns the stored definitions sorted by handle.
func (s *Store) List() []registry.FieldMeta {
	fields := s.Fields()
	metas := make([]registry.FieldMeta, len(fields))
	for i, f := range fields {
		metas[i] = f.Meta()
	}
	return metas
}

// ETag identifies the current set of definitions.
func (s *Store) ETag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.etag
}

// Subscribe returns a channel receiving every change in order. Events queue
// per subscriber until read, so a slow reader delays nobody and misses
// nothing. The returned func unsubscribes.
func (s *Store) Subscribe() (<-chan Event, func()) {
	sub := newSubscriber()
	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()
	var once sync.Once
	return sub.out, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			close(sub.done)
		})
	}
}

type subscriber struct {
	out  chan Event
	wake chan struct{}
	done chan struct{}

	mu    sync.Mutex
	queue []Event
}

func newSubscriber() *subscriber {
	sub := &subscriber{
		out:  make(chan Event),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go sub.pump()
	return sub
}

func (sub *subscriber) push(ev Event) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, ev)
	sub.mu.Unlock()
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *subscriber) pump() {
	for {
		sub.mu.Lock()
		if len(sub.queue) == 0 {
			sub.mu.Unlock()
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		ev := sub.queue[0]
		sub.queue[0] = Event{}
		sub.queue = sub.queue[1:]
		sub.mu.Unlock()
		select {
		case sub.out <- ev:
		case <-sub.done:
			return
		}
	}
}

func broadcast(subs map[*subscriber]struct{}, ev Event) {
	for sub := range subs {
		sub.push(ev)
	}
}

func cloneSubs(m map[*subscriber]struct{}) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

func computeStateHash(items map[string]customfield.Field) string {
	parts := make([]string, 0, len(items))
	for h, f := range items {
		m := f.Meta()
		st := m.Settings
		parts = append(parts, strings.Join([]string{
			h, m.UID, m.Name, m.Type, st.InputMask, st.ErrorMessage,
			st.Placeholder, strconv.FormatBool(st.Multiline),
			strconv.Itoa(st.InitialRows), strconv.Itoa(st.CharLimit),
		}, "\x00"))
	}
	sort.Strings(parts)
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x01")))
	return "\"" + hex.EncodeToString(sum[:]) + "\""
}
