// internal/app/assignment/moderators.go
package assignment

import (
	"context"
	"strings"

	"github.com/doracare/murshid/internal/domain/models"
)

// Invite emails a moderator invitation for the group.
func (w *Workflow) Invite(ctx context.Context, token, groupID, email string) error {
	return w.Groups.Invite(ctx, token, groupID, strings.TrimSpace(email))
}

// AcceptInvitation joins the inviting group and marks the notification
// read in one server-side step.
func (w *Workflow) AcceptInvitation(ctx context.Context, token, invitationID string) error {
	return w.Notifications.AcceptInvitation(ctx, token, invitationID)
}

// DeclineInvitation dismisses the invitation.
func (w *Workflow) DeclineInvitation(ctx context.Context, token, invitationID string) error {
	return w.Notifications.DeclineInvitation(ctx, token, invitationID)
}

// Leave removes the acting moderator from the group. Not offered to the
// creator; see CanLeaveGroup.
func (w *Workflow) Leave(ctx context.Context, token, groupID string) error {
	return w.Groups.Leave(ctx, token, groupID)
}

// RemoveModerator lets the creator eject another moderator.
func (w *Workflow) RemoveModerator(ctx context.Context, token, groupID, userID string) error {
	if err := w.Groups.RemoveModerator(ctx, token, groupID, userID); err != nil {
		return err
	}
	w.refresh(ctx, groupID)
	return nil
}

// CanRemoveModerator reports whether the acting user may eject target:
// only the creator can, and never against themselves.
func CanRemoveModerator(g models.Group, actorID, targetID string) bool {
	return actorID == g.CreatedBy && targetID != g.CreatedBy
}

// CanLeaveGroup reports whether the acting moderator may leave: members
// can, the creator cannot (they delete the group instead).
func CanLeaveGroup(g models.Group, actorID string) bool {
	return g.IsModerator(actorID) && actorID != g.CreatedBy
}
