// internal/app/roster/view.go
package roster

import (
	"context"
	"sync"
	"time"

	"github.com/doracare/murshid/internal/domain/models"
)

// State is where a roster view sits in its lifecycle.
//
//	Loading → Ready → Refreshing → Ready
//
// Refreshing is an overlay: reads keep returning the previous Ready
// snapshot and user interaction is never blocked by it. A failed initial
// load never produces a view at all; the caller redirects instead.
type State int

const (
	StateLoading State = iota
	StateReady
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateRefreshing:
		return "refreshing"
	}
	return "unknown"
}

// Snapshot is a copy of a view's reconciled state, safe to render
// without holding any lock.
type Snapshot struct {
	Group    models.Group
	State    State
	LastSync time.Time
}

// view is the reconciler-owned state for one group. All fields behind mu.
type view struct {
	mu sync.Mutex

	id    string
	token string

	state    State
	group    models.Group
	lastSync time.Time

	// editing suspends the wholesale replace of the group name so an
	// in-progress rename is not clobbered by a refresh.
	editing bool

	// Sequence tickets: fetches take a ticket when issued; a response
	// applies only if no later-issued response already has. Last-issued
	// wins, not last-resolved.
	nextTicket uint64
	applied    uint64

	lastTouch time.Time
	cancel    context.CancelFunc

	// ready is closed once the initial load settles; loadErr carries its
	// failure so concurrent openers waiting on ready share the outcome.
	ready   chan struct{}
	loadErr error
}

func (v *view) takeTicket() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextTicket++
	return v.nextTicket
}

// apply installs a fetched snapshot unless a later-issued fetch beat it.
func (v *view) apply(ticket uint64, g models.Group, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if ticket <= v.applied {
		return false
	}
	v.applied = ticket
	if v.editing {
		g.GroupName = v.group.GroupName
	}
	v.group = g
	v.lastSync = now
	v.state = StateReady
	return true
}

func (v *view) snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{Group: v.group, State: v.state, LastSync: v.lastSync}
}

func (v *view) touch(now time.Time) {
	v.mu.Lock()
	v.lastTouch = now
	v.mu.Unlock()
}

func (v *view) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastTouch)
}

// markRefreshing flips Ready → Refreshing for the duration of a fetch.
func (v *view) markRefreshing() {
	v.mu.Lock()
	if v.state == StateReady {
		v.state = StateRefreshing
	}
	v.mu.Unlock()
}

// settle returns the state to Ready after a failed or discarded fetch.
func (v *view) settle() {
	v.mu.Lock()
	if v.state == StateRefreshing {
		v.state = StateReady
	}
	v.mu.Unlock()
}

func (v *view) setEditing(on bool) {
	v.mu.Lock()
	v.editing = on
	v.mu.Unlock()
}

func (v *view) isEditing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editing
}
