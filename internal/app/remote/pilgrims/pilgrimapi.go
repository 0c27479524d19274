// internal/app/remote/pilgrims/pilgrimapi.go
package pilgrimapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/doracare/murshid/internal/app/gateway"
	"github.com/doracare/murshid/internal/domain/models"
)

// Store wraps pilgrim lookup and registration.
type Store struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Store {
	return &Store{api: api}
}

// Search queries pilgrims by free text against name and national id.
// The server's result is NOT guaranteed to exclude pilgrims already in
// any particular group; callers must filter.
func (s *Store) Search(ctx context.Context, token, query string, limit int) ([]models.Pilgrim, error) {
	q := url.Values{}
	q.Set("search", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Data []models.Pilgrim `json:"data"`
	}
	if err := s.api.For(token).Get(ctx, "/auth/search-pilgrims", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RegisterInput is a new pilgrim record. Email is optional and must be
// omitted from the payload when blank (the service rejects empty
// strings for unique optional fields).
type RegisterInput struct {
	FullName       string `json:"full_name"`
	NationalID     string `json:"national_id"`
	MedicalHistory string `json:"medical_history,omitempty"`
	Email          string `json:"email,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
}

// Register creates a pilgrim and returns the new id.
func (s *Store) Register(ctx context.Context, token string, in RegisterInput) (string, error) {
	var resp struct {
		PilgrimID string `json:"pilgrim_id"`
	}
	if err := s.api.For(token).Post(ctx, "/auth/register-pilgrim", in, &resp); err != nil {
		return "", err
	}
	return resp.PilgrimID, nil
}
