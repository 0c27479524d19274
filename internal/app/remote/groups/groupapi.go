// internal/app/remote/groups/groupapi.go
package groupapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/doracare/murshid/internal/app/gateway"
	"github.com/doracare/murshid/internal/domain/models"
)

// Store wraps the group endpoints of the tracking service.
type Store struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Store {
	return &Store{api: api}
}

// GetByID fetches a group with populated pilgrims, moderators, and
// available-band pool.
func (s *Store) GetByID(ctx context.Context, token, id string) (models.Group, error) {
	var g models.Group
	if err := s.api.For(token).Get(ctx, "/groups/"+id, nil, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Dashboard lists the groups the acting moderator belongs to.
func (s *Store) Dashboard(ctx context.Context, token string) ([]models.GroupSummary, error) {
	var resp struct {
		Data []models.GroupSummary `json:"data"`
	}
	if err := s.api.For(token).Get(ctx, "/groups/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Create makes a new group owned by the acting moderator.
func (s *Store) Create(ctx context.Context, token, name string) error {
	body := map[string]string{"group_name": name}
	return s.api.For(token).Post(ctx, "/groups/create", body, nil)
}

// Rename updates the group name.
func (s *Store) Rename(ctx context.Context, token, id, name string) error {
	body := map[string]string{"group_name": name}
	return s.api.For(token).Put(ctx, "/groups/"+id, body, nil)
}

// Delete removes the group.
func (s *Store) Delete(ctx context.Context, token, id string) error {
	return s.api.For(token).Delete(ctx, "/groups/"+id, nil)
}

// AvailableBands returns the group's eligible band pool.
func (s *Store) AvailableBands(ctx context.Context, token, id string) ([]models.Band, error) {
	var resp struct {
		Data []models.Band `json:"data"`
	}
	if err := s.api.For(token).Get(ctx, "/groups/"+id+"/available-bands", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AddPilgrim links an existing pilgrim onto the roster.
func (s *Store) AddPilgrim(ctx context.Context, token, groupID, pilgrimID string) error {
	body := map[string]string{"user_id": pilgrimID}
	return s.api.For(token).Post(ctx, "/groups/"+groupID+"/add-pilgrim", body, nil)
}

// RemovePilgrim drops a pilgrim from the roster. The server also severs
// any live band edge.
func (s *Store) RemovePilgrim(ctx context.Context, token, groupID, pilgrimID string) error {
	body := map[string]string{"user_id": pilgrimID}
	return s.api.For(token).Post(ctx, "/groups/"+groupID+"/remove-pilgrim", body, nil)
}

// AssignBand creates a band-to-pilgrim edge. 409 if the band is held by
// another pilgrim, 404 if the serial is not in the group's pool.
func (s *Store) AssignBand(ctx context.Context, token, groupID, pilgrimID, serial string) error {
	body := map[string]string{
		"serial_number": serial,
		"user_id":       pilgrimID,
		"group_id":      groupID,
	}
	return s.api.For(token).Post(ctx, "/groups/assign-band", body, nil)
}

// UnassignBand destroys a band edge; a no-op server-side when the
// pilgrim holds no band.
func (s *Store) UnassignBand(ctx context.Context, token, groupID, pilgrimID string) error {
	body := map[string]string{
		"user_id":  pilgrimID,
		"group_id": groupID,
	}
	return s.api.For(token).Post(ctx, "/groups/unassign-band", body, nil)
}

// Invite sends a moderator invitation by email. Delivery is server-side.
func (s *Store) Invite(ctx context.Context, token, groupID, email string) error {
	body := map[string]string{"email": email}
	return s.api.For(token).Post(ctx, "/groups/"+groupID+"/invite", body, nil)
}

// Leave removes the acting (non-creator) moderator from the group.
func (s *Store) Leave(ctx context.Context, token, groupID string) error {
	return s.api.For(token).Post(ctx, "/groups/"+groupID+"/leave", nil, nil)
}

// RemoveModerator removes another moderator; the service enforces that
// only the creator may do this and that the creator cannot be removed.
func (s *Store) RemoveModerator(ctx context.Context, token, groupID, userID string) error {
	return s.api.For(token).Delete(ctx, "/groups/"+groupID+"/moderators/"+userID, nil)
}

// SendAlert notifies every pilgrim in the group.
func (s *Store) SendAlert(ctx context.Context, token, groupID, message string) error {
	body := map[string]string{"group_id": groupID, "message_text": message}
	return s.api.For(token).Post(ctx, "/groups/send-alert", body, nil)
}

// SendIndividualAlert notifies a single pilgrim.
func (s *Store) SendIndividualAlert(ctx context.Context, token, pilgrimID, message string) error {
	body := map[string]string{"user_id": pilgrimID, "message_text": message}
	return s.api.For(token).Post(ctx, "/groups/send-individual-alert", body, nil)
}

// AdminList pages through all groups (admin only).
func (s *Store) AdminList(ctx context.Context, token string, page, limit int, search string) ([]models.GroupSummary, models.Pagination, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if search != "" {
		q.Set("search", search)
	}
	var resp struct {
		Data       []models.GroupSummary `json:"data"`
		Pagination models.Pagination     `json:"pagination"`
	}
	if err := s.api.For(token).Get(ctx, "/admin/groups", q, &resp); err != nil {
		return nil, models.Pagination{}, err
	}
	return resp.Data, resp.Pagination, nil
}

// AdminAssignBands places bands into a group's available pool.
func (s *Store) AdminAssignBands(ctx context.Context, token, groupID string, bandIDs []string) error {
	body := map[string][]string{"band_ids": bandIDs}
	return s.api.For(token).Post(ctx, "/admin/groups/"+groupID+"/assign-bands", body, nil)
}

// AdminUnassignBands withdraws bands from a group's pool.
func (s *Store) AdminUnassignBands(ctx context.Context, token, groupID string, bandIDs []string) error {
	body := map[string][]string{"band_ids": bandIDs}
	return s.api.For(token).Post(ctx, "/admin/groups/"+groupID+"/unassign-bands", body, nil)
}

// AdminDelete removes any group (admin only).
func (s *Store) AdminDelete(ctx context.Context, token, groupID string) error {
	return s.api.For(token).Delete(ctx, "/admin/groups/"+groupID, nil)
}
