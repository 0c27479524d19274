// internal/domain/models/user.go
package models

// User is an account on the tracking service, as returned by /auth/me and
// the admin user listings. Moderators and admins are both Users; the role
// field distinguishes them.
type User struct {
	ID          string `json:"_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	Active      bool   `json:"active"`
}

// Roles known to the service.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)
