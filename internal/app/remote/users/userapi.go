// internal/app/remote/users/userapi.go
package userapi

import (
	"context"
	"net/url"
	"strconv"

	"github.com/doracare/murshid/internal/app/gateway"
	"github.com/doracare/murshid/internal/domain/models"
)

// Store wraps account and admin user endpoints.
type Store struct {
	api *gateway.Client
}

func New(api *gateway.Client) *Store {
	return &Store{api: api}
}

// LoginResult is the session material issued by /auth/login.
type LoginResult struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	UserID   string `json:"user_id"`
}

// Login exchanges credentials for a bearer token.
func (s *Store) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := s.api.For("").Post(ctx, "/auth/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

// RegisterInput creates a moderator account.
type RegisterInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates an account; the caller still logs in afterwards.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	return s.api.For("").Post(ctx, "/auth/register", in, nil)
}

// Me returns the acting user's profile.
func (s *Store) Me(ctx context.Context, token string) (models.User, error) {
	var u models.User
	if err := s.api.For(token).Get(ctx, "/auth/me", nil, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName    string `json:"full_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// UpdateProfile edits the acting user's profile.
func (s *Store) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) error {
	return s.api.For(token).Put(ctx, "/auth/update-profile", in, nil)
}

// AdminList pages through all accounts (admin only).
func (s *Store) AdminList(ctx context.Context, token string, page, limit int, search string) ([]models.User, models.Pagination, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if search != "" {
		q.Set("search", search)
	}
	var resp struct {
		Data       []models.User     `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	if err := s.api.For(token).Get(ctx, "/admin/users", q, &resp); err != nil {
		return nil, models.Pagination{}, err
	}
	return resp.Data, resp.Pagination, nil
}

// Admin account actions. Each posts {user_id} to its own endpoint.

func (s *Store) Activate(ctx context.Context, token, userID string) error {
	return s.adminAction(ctx, token, "activate", userID)
}

func (s *Store) Deactivate(ctx context.Context, token, userID string) error {
	return s.adminAction(ctx, token, "deactivate", userID)
}

func (s *Store) Promote(ctx context.Context, token, userID string) error {
	return s.adminAction(ctx, token, "promote", userID)
}

func (s *Store) Demote(ctx context.Context, token, userID string) error {
	return s.adminAction(ctx, token, "demote", userID)
}

func (s *Store) adminAction(ctx context.Context, token, action, userID string) error {
	body := map[string]string{"user_id": userID}
	return s.api.For(token).Post(ctx, "/admin/users/"+action, body, nil)
}

// Stats is the admin overview card data.
type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalGroups   int `json:"total_groups"`
	TotalPilgrims int `json:"total_pilgrims"`
	TotalBands    int `json:"total_bands"`
	ActiveBands   int `json:"active_bands"`
}

// AdminStats returns platform totals for the admin landing page.
func (s *Store) AdminStats(ctx context.Context, token string) (Stats, error) {
	var resp struct {
		Data Stats `json:"data"`
	}
	if err := s.api.For(token).Get(ctx, "/admin/stats", nil, &resp); err != nil {
		return Stats{}, err
	}
	return resp.Data, nil
}
