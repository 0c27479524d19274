// internal/domain/models/notification.go
package models

import "time"

// Notification types. Group invitations carry a structured payload;
// plain alerts only a message.
const (
	NotificationAlert      = "alert"
	NotificationInvitation = "group_invitation"
)

// Notification is created server-side and polled by the dashboard.
// Read is flipped by explicit or bulk mark-read actions.
type Notification struct {
	ID           string    `json:"_id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	InvitationID string    `json:"invitation_id,omitempty"`
	GroupID      string    `json:"group_id,omitempty"`
	GroupName    string    `json:"group_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsInvitation reports whether this notification is a pending group
// invitation (accept/decline applies only to these).
func (n Notification) IsInvitation() bool { return n.Type == NotificationInvitation }
