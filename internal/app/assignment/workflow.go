// internal/app/assignment/workflow.go
package assignment

import (
	"context"
	"strings"

	bandapi "github.com/doracare/murshid/internal/app/remote/bands"
	groupapi "github.com/doracare/murshid/internal/app/remote/groups"
	notifyapi "github.com/doracare/murshid/internal/app/remote/notifications"
	pilgrimapi "github.com/doracare/murshid/internal/app/remote/pilgrims"
	"github.com/doracare/murshid/internal/app/roster"
	"go.uber.org/zap"
)

// Workflow orchestrates the mutations that link pilgrims, bands, and
// moderators to groups. Every successful mutation against an open
// roster view ends with a reconciler refresh so the shell renders
// post-mutation state, never an optimistic guess.
type Workflow struct {
	Groups        *groupapi.Store
	Bands         *bandapi.Store
	Pilgrims      *pilgrimapi.Store
	Notifications *notifyapi.Store
	Roster        *roster.Reconciler
	Log           *zap.Logger
}

func New(groups *groupapi.Store, bands *bandapi.Store, pilgrims *pilgrimapi.Store, notifications *notifyapi.Store, rec *roster.Reconciler, logger *zap.Logger) *Workflow {
	return &Workflow{
		Groups:        groups,
		Bands:         bands,
		Pilgrims:      pilgrims,
		Notifications: notifications,
		Roster:        rec,
		Log:           logger,
	}
}

// refresh pulls the post-mutation roster. A refresh failure after a
// mutation that already succeeded is logged, not surfaced: the next
// poll tick converges the view and the mutation itself did not fail.
func (w *Workflow) refresh(ctx context.Context, groupID string) {
	if _, err := w.Roster.Refresh(ctx, groupID); err != nil && err != roster.ErrNotOpen {
		w.Log.Warn("post-mutation roster refresh failed",
			zap.String("group_id", groupID),
			zap.Error(err))
	}
}

// AssignBand links the band with the given serial to a pilgrim. The
// service answers 409 when the band is held by another pilgrim and 404
// when the serial is not in the group's available pool.
func (w *Workflow) AssignBand(ctx context.Context, token, groupID, pilgrimID, serial string) error {
	serial = strings.TrimSpace(serial)
	if err := w.Groups.AssignBand(ctx, token, groupID, pilgrimID, serial); err != nil {
		return err
	}
	w.refresh(ctx, groupID)
	return nil
}

// UnassignBand severs the pilgrim's band edge. The server treats an
// already-unassigned pilgrim as a no-op; the shell merely hides the
// affordance when no band is present.
func (w *Workflow) UnassignBand(ctx context.Context, token, groupID, pilgrimID string) error {
	if err := w.Groups.UnassignBand(ctx, token, groupID, pilgrimID); err != nil {
		return err
	}
	w.refresh(ctx, groupID)
	return nil
}

// AddPilgrim places an existing pilgrim on the roster.
func (w *Workflow) AddPilgrim(ctx context.Context, token, groupID, pilgrimID string) error {
	if err := w.Groups.AddPilgrim(ctx, token, groupID, pilgrimID); err != nil {
		return err
	}
	w.refresh(ctx, groupID)
	return nil
}

// RemovePilgrim drops a pilgrim from the roster (and any band edge with
// them).
func (w *Workflow) RemovePilgrim(ctx context.Context, token, groupID, pilgrimID string) error {
	if err := w.Groups.RemovePilgrim(ctx, token, groupID, pilgrimID); err != nil {
		return err
	}
	w.refresh(ctx, groupID)
	return nil
}

// RegisterPilgrim creates a new pilgrim record and immediately adds it
// to the group. A blank optional email must not reach the service.
func (w *Workflow) RegisterPilgrim(ctx context.Context, token, groupID string, in pilgrimapi.RegisterInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.Email = strings.TrimSpace(in.Email)

	id, err := w.Pilgrims.Register(ctx, token, in)
	if err != nil {
		return err
	}
	return w.AddPilgrim(ctx, token, groupID, id)
}

// SendGroupAlert notifies every pilgrim in the group.
func (w *Workflow) SendGroupAlert(ctx context.Context, token, groupID, message string) error {
	return w.Groups.SendAlert(ctx, token, groupID, message)
}

// SendPilgrimAlert notifies one pilgrim.
func (w *Workflow) SendPilgrimAlert(ctx context.Context, token, pilgrimID, message string) error {
	return w.Groups.SendIndividualAlert(ctx, token, pilgrimID, message)
}
