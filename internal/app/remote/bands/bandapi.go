// internal/app/remote/bands/bandapi.go
package bandapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/doracare/murshid/internal/app/gateway"
	"github.com/doracare/murshid/internal/domain/models"
)

// Store wraps the hardware (band fleet) endpoints.
type Store struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Store {
	return &Store{api: api}
}

// ListFilter narrows the fleet listing.
type ListFilter struct {
	Status                  string
	ExcludeAssignedToGroups bool
	Page, Limit             int
}

// List pages through the fleet.
func (s *Store) List(ctx context.Context, token string, f ListFilter) ([]models.Band, models.Pagination, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.ExcludeAssignedToGroups {
		q.Set("exclude_assigned_to_groups", "true")
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	var resp struct {
		Data       []models.Band     `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	if err := s.api.For(token).Get(ctx, "/hardware/bands", q, &resp); err != nil {
		return nil, models.Pagination{}, err
	}
	return resp.Data, resp.Pagination, nil
}

// GetBySerial fetches one band, including battery and last location.
func (s *Store) GetBySerial(ctx context.Context, token, serial string) (models.Band, error) {
	var resp struct {
		Data models.Band `json:"data"`
	}
	if err := s.api.For(token).Get(ctx, "/hardware/bands/"+serial, nil, &resp); err != nil {
		return models.Band{}, err
	}
	return resp.Data, nil
}

// RegisterInput describes a new tracker to enroll.
type RegisterInput struct {
	SerialNumber string `json:"serial_number"`
	IMEI         string `json:"imei"`
}

// Register enrolls a new band into the fleet.
func (s *Store) Register(ctx context.Context, token string, in RegisterInput) error {
	return s.api.For(token).Post(ctx, "/hardware/register", in, nil)
}

// Activate returns a deactivated band to service.
func (s *Store) Activate(ctx context.Context, token, serial string) error {
	return s.api.For(token).Post(ctx, "/hardware/bands/"+serial+"/activate", nil, nil)
}

// Deactivate is the soft delete: the band stays listed with status
// inactive and can be re-activated.
func (s *Store) Deactivate(ctx context.Context, token, serial string) error {
	return s.api.For(token).Delete(ctx, "/hardware/bands/"+serial, nil)
}

// ForceDelete irreversibly removes a band. It is a distinct operation,
// not a flag, so a soft delete can never escalate by accident.
func (s *Store) ForceDelete(ctx context.Context, token, serial string) error {
	return s.api.For(token).Delete(ctx, "/hardware/bands/"+serial+"/force", nil)
}
