// internal/app/remote/notifications/notifyapi.go
package notifyapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/doracare/murshid/internal/app/gateway"
	"github.com/doracare/murshid/internal/domain/models"
)

// Store wraps the notification and invitation endpoints.
type Store struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Store {
	return &Store{api: api}
}

// List returns the newest notifications with the unread total.
func (s *Store) List(ctx context.Context, token string, limit int) ([]models.Notification, int, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Data        []models.Notification `json:"data"`
		UnreadCount int                   `json:"unread_count"`
	}
	if err := s.api.For(token).Get(ctx, "/notifications", q, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data, resp.UnreadCount, nil
}

// MarkAllRead flips every notification's read flag.
func (s *Store) MarkAllRead(ctx context.Context, token string) error {
	return s.api.For(token).Put(ctx, "/notifications/read-all", nil, nil)
}

// AcceptInvitation atomically joins the inviting group's moderator set
// and marks the invitation notification read.
func (s *Store) AcceptInvitation(ctx context.Context, token, invitationID string) error {
	return s.api.For(token).Post(ctx, "/invitations/"+invitationID+"/accept", nil, nil)
}

// DeclineInvitation only marks the notification read.
func (s *Store) DeclineInvitation(ctx context.Context, token, invitationID string) error {
	return s.api.For(token).Post(ctx, "/invitations/"+invitationID+"/decline", nil, nil)
}
