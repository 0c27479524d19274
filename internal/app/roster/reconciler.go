// internal/app/roster/reconciler.go
package roster

import (
	"context"
	"errors"
	"sync"
	"time"

	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	"go.uber.org/zap"
)

// DefaultInterval is the background poll period between roster syncs.
const DefaultInterval = 30 * time.Second

// ErrNotOpen is returned when an operation targets a group no view is
// open for.
var ErrNotOpen = errors.New("roster: view not open")

// Reconciler owns the in-memory views of group rosters: pilgrims, their
// band assignments, and the moderator set. Each open view is kept fresh
// by two triggers: an explicit Refresh after any mutation, and a
// background poll bound to the view's own context. Every refresh
// replaces the snapshot wholesale; the only field protected from the
// replace is the group name while an edit is in progress.
//
// The presentation layer never mutates a snapshot. All writes round-trip
// through the service and come back via Refresh.
type Reconciler struct {
	groups    *groupapi.Store
	log       *zap.Logger
	interval  time.Duration
	idleAfter time.Duration

	mu    sync.Mutex
	views map[string]*view
}

// Option adjusts a Reconciler.
type Option func(*Reconciler)

// WithInterval overrides the background poll period.
func WithInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithIdleAfter overrides how long an untouched view survives before its
// poller is cancelled and the view dropped.
func WithIdleAfter(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.idleAfter = d
		}
	}
}

func New(groups *groupapi.Store, logger *zap.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		groups:   groups,
		log:      logger,
		interval: DefaultInterval,
		views:    make(map[string]*view),
	}
	for _, o := range opts {
		o(r)
	}
	if r.idleAfter == 0 {
		r.idleAfter = 3 * r.interval
	}
	return r
}

// Open loads the group in the foreground and starts its background
// poller. A load failure (including 404) produces no view; the error
// propagates so the shell can redirect to the parent list. Opening an
// already-open view refreshes its token and returns the live snapshot
// without blocking on the network; a concurrent Open of a group whose
// initial load is still in flight waits for that load and shares its
// result, so no caller ever renders an empty Loading snapshot.
func (r *Reconciler) Open(ctx context.Context, token, groupID string) (Snapshot, error) {
	now := time.Now()

	r.mu.Lock()
	if v, ok := r.views[groupID]; ok {
		r.mu.Unlock()
		select {
		case <-v.ready:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
		v.mu.Lock()
		if err := v.loadErr; err != nil {
			v.mu.Unlock()
			return Snapshot{}, err
		}
		v.token = token
		v.lastTouch = now
		v.mu.Unlock()
		return v.snapshot(), nil
	}
	v := &view{id: groupID, token: token, state: StateLoading, lastTouch: now, ready: make(chan struct{})}
	r.views[groupID] = v
	r.mu.Unlock()

	ticket := v.takeTicket()
	g, err := r.groups.GetByID(ctx, token, groupID)
	if err != nil {
		r.mu.Lock()
		delete(r.views, groupID)
		r.mu.Unlock()
		v.mu.Lock()
		v.loadErr = err
		v.mu.Unlock()
		close(v.ready)
		return Snapshot{}, err
	}
	v.apply(ticket, g, time.Now())

	// The poller outlives the opening request; its context belongs to
	// the view and is cancelled on Close or idle teardown.
	pollCtx, cancel := context.WithCancel(context.Background())
	v.mu.Lock()
	v.cancel = cancel
	v.mu.Unlock()
	go r.poll(pollCtx, v)
	close(v.ready)

	return v.snapshot(), nil
}

// Snapshot returns the current reconciled state of an open view and
// marks it touched.
func (r *Reconciler) Snapshot(groupID string) (Snapshot, bool) {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	v.touch(time.Now())
	return v.snapshot(), true
}

// Refresh refetches the group in the foreground, for use right after a
// mutation. Unlike the background poll, its error is surfaced.
func (r *Reconciler) Refresh(ctx context.Context, groupID string) (Snapshot, error) {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNotOpen
	}
	v.touch(time.Now())
	v.markRefreshing()

	v.mu.Lock()
	token := v.token
	v.mu.Unlock()

	ticket := v.takeTicket()
	g, err := r.groups.GetByID(ctx, token, groupID)
	if err != nil {
		v.settle()
		return Snapshot{}, err
	}
	if !v.apply(ticket, g, time.Now()) {
		v.settle()
	}
	return v.snapshot(), nil
}

// BeginEdit suspends snapshot replacement of the group name while the
// user has the rename field open.
func (r *Reconciler) BeginEdit(groupID string) bool {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	v.setEditing(true)
	return true
}

// CancelEdit releases the suspension without renaming.
func (r *Reconciler) CancelEdit(groupID string) {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	if ok {
		v.setEditing(false)
	}
}

// CommitEdit persists the rename, releases the suspension, and
// refreshes the view.
func (r *Reconciler) CommitEdit(ctx context.Context, groupID, name string) (Snapshot, error) {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNotOpen
	}
	v.mu.Lock()
	token := v.token
	v.mu.Unlock()

	if err := r.groups.Rename(ctx, token, groupID, name); err != nil {
		// The edit stays open so the user's typing is not lost.
		return Snapshot{}, err
	}
	v.setEditing(false)
	return r.Refresh(ctx, groupID)
}

// Editing reports whether a rename is in progress on the view.
func (r *Reconciler) Editing(groupID string) bool {
	r.mu.Lock()
	v, ok := r.views[groupID]
	r.mu.Unlock()
	return ok && v.isEditing()
}

// Close cancels the view's poller and drops it. Safe to call for a
// group that was never opened.
func (r *Reconciler) Close(groupID string) {
	r.mu.Lock()
	v, ok := r.views[groupID]
	if ok {
		delete(r.views, groupID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	v.mu.Lock()
	cancel := v.cancel
	v.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// CloseAll tears down every open view; used at shutdown.
func (r *Reconciler) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.Close(id)
	}
}

// poll is the background sync loop for one view. Failures are logged
// and swallowed: only explicit user actions surface errors. An idle
// view is torn down so no fetch can land on a roster nobody is viewing.
func (r *Reconciler) poll(ctx context.Context, v *view) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if v.idleSince(time.Now()) > r.idleAfter {
			r.log.Debug("roster view idle, closing", zap.String("group_id", v.id))
			r.Close(v.id)
			return
		}

		v.mu.Lock()
		token := v.token
		v.mu.Unlock()

		v.markRefreshing()
		ticket := v.takeTicket()

		fetchCtx, cancel := context.WithTimeout(ctx, r.interval)
		g, err := r.groups.GetByID(fetchCtx, token, v.id)
		cancel()
		if err != nil {
			v.settle()
			r.log.Warn("roster background sync failed",
				zap.String("group_id", v.id),
				zap.Error(err))
			continue
		}
		if !v.apply(ticket, g, time.Now()) {
			v.settle()
		}
	}
}
