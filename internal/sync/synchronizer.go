// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sync orchestrates the content document between the local cache, the
// remote store, and the in-memory value the rest of the application renders
// from. It is the sole writer to both stores: every other component builds a
// new document value and hands it to Update.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olegiv/olp-go/internal/model"
)

// State of the synchronizer. Ready is terminal for the process lifetime.
type State int32

const (
	StateLoading State = iota
	StateReady
)

// ErrNotReady is returned for writes attempted before startup resolution.
var ErrNotReady = errors.New("sync: content document not loaded yet")

// DefaultDebounce is the quiet period after the last local write before the
// pending remote upsert fires. Chosen to absorb a typing burst without
// feeling laggy on intentional pauses.
const DefaultDebounce = 2 * time.Second

// LocalStore is the durable local cache of the content document.
type LocalStore interface {
	Load(ctx context.Context) (*model.ContentDocument, error)
	Save(ctx context.Context, doc *model.ContentDocument) error
}

// RemoteStore is the remote document store client. FetchLatest returns nil on
// any failure; Upsert errors are logged by the synchronizer and swallowed.
type RemoteStore interface {
	FetchLatest(ctx context.Context) *model.ContentDocument
	Upsert(ctx context.Context, doc *model.ContentDocument) error
}

// Config holds synchronizer configuration.
type Config struct {
	Local  LocalStore
	Remote RemoteStore // nil disables remote synchronization
	// Debounce is the remote write quiet period. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Synchronizer owns the in-memory content document.
type Synchronizer struct {
	local    LocalStore
	remote   RemoteStore
	debounce time.Duration

	mu       sync.RWMutex
	doc      *model.ContentDocument
	revision int64

	state   atomic.Int32
	started atomic.Bool

	timerMu sync.Mutex
	timer   *time.Timer
	closed  bool

	onUpdate []func()
}

// New creates a Synchronizer in the Loading state.
func New(cfg Config) *Synchronizer {
	d := cfg.Debounce
	if d <= 0 {
		d = DefaultDebounce
	}
	return &Synchronizer{
		local:    cfg.Local,
		remote:   cfg.Remote,
		debounce: d,
	}
}

// OnUpdate registers a callback invoked after every accepted document update.
// Must be called before Start; callbacks run synchronously on the updating
// goroutine and should be cheap (cache invalidation, metrics).
func (s *Synchronizer) OnUpdate(fn func()) {
	s.onUpdate = append(s.onUpdate, fn)
}

// Start executes the startup protocol exactly once: the remote document wins
// when reachable and refreshes the local cache; otherwise the version-gated
// local cache is used; otherwise the built-in defaults. It then transitions
// to Ready. Until Ready, Current returns nil and Update is rejected.
func (s *Synchronizer) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	var doc *model.ContentDocument
	var source string

	if remote := s.remoteFetch(ctx); remote != nil {
		doc = remote
		source = "remote"
		if err := s.local.Save(ctx, doc); err != nil {
			slog.Warn("refreshing local cache from remote failed", "error", err)
		}
	} else if cached, err := s.local.Load(ctx); err != nil {
		slog.Warn("loading local content cache failed", "error", err)
	} else if cached != nil {
		doc = cached
		source = "cache"
	}

	if doc == nil {
		doc = model.Default()
		source = "defaults"
	}

	s.mu.Lock()
	s.doc = doc
	s.revision = 1
	s.mu.Unlock()

	s.state.Store(int32(StateReady))
	slog.Info("content document loaded", "source", source)
}

// remoteFetch asks the remote store for the latest document, bounded so a
// slow remote cannot stall startup indefinitely.
func (s *Synchronizer) remoteFetch(ctx context.Context) *model.ContentDocument {
	if s.remote == nil {
		return nil
	}
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.remote.FetchLatest(fetchCtx)
}

// Ready reports whether the startup protocol has completed.
func (s *Synchronizer) Ready() bool {
	return State(s.state.Load()) == StateReady
}

// Current returns the in-memory content document, or nil before Ready.
// Callers must treat the returned value as read-only; edits go through
// Clone followed by Update.
func (s *Synchronizer) Current() *model.ContentDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Revision returns a counter incremented on every accepted update. Useful as
// a cache key component for rendered output.
func (s *Synchronizer) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Update replaces the in-memory document, mirrors it to the local cache
// immediately, and schedules a debounced remote upsert. A new update before
// the quiet window elapses cancels the pending upsert and restarts the
// window, so only the final state of an edit burst reaches the remote store.
// Intermediate states are never lost locally.
func (s *Synchronizer) Update(ctx context.Context, doc *model.ContentDocument) error {
	if !s.Ready() {
		return ErrNotReady
	}

	s.mu.Lock()
	s.doc = doc
	s.revision++
	s.mu.Unlock()

	// Local save failure degrades to in-memory-only for this write; the
	// request is never failed on its account.
	if err := s.local.Save(ctx, doc); err != nil {
		slog.Warn("saving content to local cache failed", "error", err)
	}

	s.scheduleUpsert()

	for _, fn := range s.onUpdate {
		fn()
	}
	return nil
}

// scheduleUpsert arms the debounce timer, cancelling any pending one.
func (s *Synchronizer) scheduleUpsert() {
	if s.remote == nil {
		return
	}

	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.flushRemote)
}

// flushRemote sends the current document to the remote store.
func (s *Synchronizer) flushRemote() {
	doc := s.Current()
	if doc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.remote.Upsert(ctx, doc); err != nil {
		slog.Warn("remote content upsert failed", "error", err)
		return
	}
	slog.Debug("remote content synchronized")
}

// SyncNow cancels any pending debounce and upserts the current document
// immediately. Used by the admin panel's manual push action.
func (s *Synchronizer) SyncNow(ctx context.Context) error {
	if !s.Ready() {
		return ErrNotReady
	}
	if s.remote == nil {
		return errors.New("sync: remote store not configured")
	}

	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerMu.Unlock()

	return s.remote.Upsert(ctx, s.Current())
}

// Close cancels the pending debounce timer so no write fires after teardown.
// An in-flight upsert is left to complete or fail on its own.
func (s *Synchronizer) Close() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
