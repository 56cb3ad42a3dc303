package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rangedeck/pkg/errors"
	"github.com/matzehuels/rangedeck/pkg/layout"
	"github.com/matzehuels/rangedeck/pkg/observability"
)

// Updater computes the next state from the current one. It receives a deep
// copy and its result replaces the stored state entirely.
type Updater func(layout.State) layout.State

// Replace returns an Updater that ignores the current state.
func Replace(s layout.State) Updater {
	return func(layout.State) layout.State { return s.Clone() }
}

// Store is a keyed layout state container. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *log.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock sets the clock used for UpdatedAt.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// New returns a Store over b.
func New(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, logger: log.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Get returns the state for key. If nothing is stored, the stored value is
// unreadable, or its signature differs from items, a fresh state is built
// with layout.Initial, persisted and returned.
func (s *Store) Get(ctx context.Context, key string, items []layout.Item) (layout.State, error) {
	if err := errors.ValidateKey(key); err != nil {
		return layout.State{}, err
	}
	if err := layout.ValidateItems(items); err != nil {
		return layout.State{}, err
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return layout.State{}, err
	}
	defer unlock()

	st, ok, err := s.load(ctx, key)
	if err != nil {
		return layout.State{}, err
	}
	if ok && !st.Stale(items) {
		return st, nil
	}

	if ok {
		s.logger.Debug("reinitializing layout", "key", key, "stored", st.Signature, "current", layout.Signature(items))
	}
	st = layout.Initial(items)
	if err := s.save(ctx, key, &st); err != nil {
		return layout.State{}, err
	}
	observability.Layout().OnReinitialize(ctx, key, len(items))
	return st, nil
}

// Peek returns the stored state for key without reinitializing it.
func (s *Store) Peek(ctx context.Context, key string) (layout.State, bool, error) {
	if err := errors.ValidateKey(key); err != nil {
		return layout.State{}, false, err
	}
	return s.load(ctx, key)
}

// Set applies fn to the state stored under key and persists the result. The
// read-modify-write is serialized within the process and, for backends
// implementing Locker, across processes. A missing key passes the zero State
// to fn. When fn returns the stored state unchanged nothing is written.
func (s *Store) Set(ctx context.Context, key string, fn Updater) (layout.State, error) {
	if err := errors.ValidateKey(key); err != nil {
		return layout.State{}, err
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return layout.State{}, err
	}
	defer unlock()

	cur, found, err := s.load(ctx, key)
	if err != nil {
		return layout.State{}, err
	}
	next := fn(cur.Clone())
	if found && unchanged(cur, next) {
		return next, nil
	}
	if err := s.save(ctx, key, &next); err != nil {
		return layout.State{}, err
	}
	return next, nil
}

// Delete removes the state for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := RetryWithBackoff(ctx, func() error { return s.backend.Delete(ctx, key) })
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete %q", key)
	}
	return nil
}

// Keys returns all stored comparison keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := RetryWithBackoff(ctx, func() error {
		var err error
		keys, err = s.backend.List(ctx)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "list keys")
	}
	return keys, nil
}

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) lock(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	l, ok := s.backend.(Locker)
	if !ok {
		return s.mu.Unlock, nil
	}
	release, err := l.Lock(ctx, key)
	if err != nil {
		s.mu.Unlock()
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "lock %q", key)
	}
	return func() {
		release()
		s.mu.Unlock()
	}, nil
}

func (s *Store) load(ctx context.Context, key string) (layout.State, bool, error) {
	start := time.Now()
	var (
		data []byte
		ok   bool
	)
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, ok, err = s.backend.Get(ctx, key)
		return err
	})
	observability.Store().OnLoad(ctx, s.backend.Name(), key, ok, time.Since(start), err)
	if err != nil {
		return layout.State{}, false, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load %q", key)
	}
	if !ok {
		return layout.State{}, false, nil
	}

	var st layout.State
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("discarding unreadable layout", "key", key, "err", err)
		return layout.State{}, false, nil
	}
	return st, true, nil
}

// unchanged reports whether a and b encode to the same document.
func unchanged(a, b layout.State) bool {
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	return err == nil && bytes.Equal(da, db)
}

func (s *Store) save(ctx context.Context, key string, st *layout.State) error {
	st.UpdatedAt = s.now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %q", key)
	}

	start := time.Now()
	err = RetryWithBackoff(ctx, func() error { return s.backend.Set(ctx, key, data) })
	observability.Store().OnSave(ctx, s.backend.Name(), key, len(data), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save %q", key)
	}
	s.logger.Debug("saved layout", "key", key, "backend", s.backend.Name(), "bytes", len(data))
	return nil
}
