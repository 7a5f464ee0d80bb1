package syncengine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/notifyhub/pkg/notifications"
)

// PageResult is one fetched page plus the continuation needed for
// incremental loading.
type PageResult struct {
	Records     []notifications.DeliveryRecord
	NextMarker  Marker // marker for the next LoadMore; empty when exhausted
	HasMore     bool
	UnreadTotal int
}

// Fetcher retrieves one page of delivery records for a marker. The
// implementation decides which pagination mode the marker maps onto
// (Marker.Page / Marker.Cursor).
type Fetcher interface {
	FetchPage(ctx context.Context, marker Marker) (PageResult, error)
}

// Mutator issues read-state mutations against the owning API.
type Mutator interface {
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
}

// Engine is the stateful wrapper around the pure transitions. One engine
// serves one client view; all operations are serialized through a single
// mutex, which is what keeps the ordering and uniqueness invariants safe when
// pages, pushes and user actions arrive on different goroutines.
type Engine struct {
	fetcher Fetcher
	mutator Mutator
	logger  *slog.Logger
	start   Marker

	state          State
	nextMarker     Marker
	hasMore        bool
	loading        bool
	refreshPending bool
	closed         bool
	mu             sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithStartMarker sets the first-page marker, switching the engine between
// page mode (default, PageMarker(1)) and cursor mode (CursorMarker(0)).
func WithStartMarker(m Marker) EngineOption {
	return func(e *Engine) {
		if m != "" {
			e.start = m
		}
	}
}

// New creates an engine. The fetcher is required; a nil mutator makes
// mark-read operations local-only.
func New(fetcher Fetcher, mutator Mutator, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher: fetcher,
		mutator: mutator,
		logger:  slog.Default(),
		start:   PageMarker(1),
		state:   NewState(),
		hasMore: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start performs the initial first-page fetch.
func (e *Engine) Start(ctx context.Context) error {
	return e.fetch(ctx, e.start)
}

// Refresh refetches the first page. Call it after a stream reconnect to
// close the gap left by pushes missed while offline; duplicate suppression
// in the merge keeps redelivered records from appearing twice.
//
// A refresh requested while another fetch is in flight is not dropped: it is
// remembered and runs as soon as the in-flight fetch completes, so a reconnect
// racing a LoadMore still heals the gap.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	if e.loading {
		e.refreshPending = true
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	return e.fetch(ctx, e.start)
}

// LoadMore fetches the next page if one is known. Duplicate calls while a
// load is in flight, after the marker was already merged, or past the end of
// the list are silent no-ops: a fast scroll must not fan out into duplicate
// fetches.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	marker := e.nextMarker
	if e.loading || !e.hasMore || marker == "" || e.state.HasMarker(marker) {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	return e.fetch(ctx, marker)
}

// fetch runs one page fetch under the single-flight guard and merges the
// result. A result arriving after Close is discarded, not applied. When a
// refresh was requested mid-flight the loop runs it next, on this caller's
// context; a failed fetch drops the pending refresh, since the state is
// unchanged and the caller's retry path owns recovery either way.
func (e *Engine) fetch(ctx context.Context, marker Marker) error {
	for {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return ErrEngineClosed
		}
		if e.loading {
			e.mu.Unlock()
			return nil
		}
		e.loading = true
		e.mu.Unlock()

		result, err := e.fetcher.FetchPage(ctx, marker)

		e.mu.Lock()
		e.loading = false

		if e.closed {
			// State was torn down while the fetch was in flight.
			e.mu.Unlock()
			return nil
		}
		if err != nil {
			e.refreshPending = false
			e.mu.Unlock()
			return err
		}

		e.state = MergePage(e.state, result.Records, marker, result.UnreadTotal)
		e.nextMarker = result.NextMarker
		e.hasMore = result.HasMore

		rerun := e.refreshPending
		e.refreshPending = false
		e.mu.Unlock()

		if !rerun {
			return nil
		}
		marker = e.start
	}
}

// ApplyPush merges one pushed record. Duplicates are dropped silently.
func (e *Engine) ApplyPush(rec notifications.DeliveryRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.state = MergePush(e.state, rec)
}

// MarkRead optimistically marks a record as read and issues the store
// mutation. Already-read and unknown records are no-ops. A failed mutation
// is logged and returned but the local state is deliberately not rolled
// back; the next full refetch corrects any divergence.
func (e *Engine) MarkRead(ctx context.Context, id int64) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	next, changed := MarkRead(e.state, id)
	if !changed {
		e.mu.Unlock()
		return nil
	}
	e.state = next
	e.mu.Unlock()

	if e.mutator == nil {
		return nil
	}
	if err := e.mutator.MarkRead(ctx, id); err != nil {
		e.logger.Warn("syncengine: mark-read mutation failed, keeping optimistic state",
			slog.Int64("notification_id", id),
			slog.Any("error", err))
		return err
	}
	return nil
}

// MarkAllRead optimistically marks everything read and issues one bulk store
// mutation. No-op when nothing is unread. Same no-rollback policy as MarkRead.
func (e *Engine) MarkAllRead(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineClosed
	}
	next, changed := MarkAllRead(e.state)
	if !changed {
		e.mu.Unlock()
		return nil
	}
	e.state = next
	e.mu.Unlock()

	if e.mutator == nil {
		return nil
	}
	if err := e.mutator.MarkAllRead(ctx); err != nil {
		e.logger.Warn("syncengine: mark-all-read mutation failed, keeping optimistic state",
			slog.Any("error", err))
		return err
	}
	return nil
}

// Reset discards all accumulated state, returning the engine to its initial
// empty view. This is the explicit alternative to the first-page restart
// heuristic inside MergePage.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.state = NewState()
	e.nextMarker = ""
	e.hasMore = true
}

// Close tears the engine down. In-flight fetches complete but their results
// are discarded.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Records returns a copy of the accumulated records, newest first.
func (e *Engine) Records() []notifications.DeliveryRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]notifications.DeliveryRecord, len(e.state.Records))
	copy(out, e.state.Records)
	return out
}

// Unread returns the current unread counter.
func (e *Engine) Unread() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Unread
}

// HasMore reports whether another page is known to exist.
func (e *Engine) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}
