// internal/domain/models/group.go
package models

import "time"

// Group is the populated group document from GET /groups/{id}: pilgrims,
// moderators, and the group's available-band pool are embedded.
//
// The creator is implicitly a moderator even when the service omits them
// from ModeratorIDs; affordance checks must treat CreatedBy accordingly.
type Group struct {
	ID             string    `json:"_id"`
	GroupName      string    `json:"group_name"`
	CreatedBy      string    `json:"created_by"`
	Moderators     []User    `json:"moderator_ids"`
	Pilgrims       []Pilgrim `json:"pilgrims"`
	AvailableBands []Band    `json:"available_bands"`
	CreatedAt      time.Time `json:"created_at"`
}

// PilgrimByID returns the roster entry with the given id.
func (g Group) PilgrimByID(id string) (Pilgrim, bool) {
	for _, p := range g.Pilgrims {
		if p.ID == id {
			return p, true
		}
	}
	return Pilgrim{}, false
}

// HasPilgrim reports whether the pilgrim is already on the roster.
func (g Group) HasPilgrim(id string) bool {
	_, ok := g.PilgrimByID(id)
	return ok
}

// IsModerator reports whether the user moderates this group. The creator
// always counts.
func (g Group) IsModerator(userID string) bool {
	if userID == "" {
		return false
	}
	if g.CreatedBy == userID {
		return true
	}
	for _, m := range g.Moderators {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// GroupSummary is the compact form used on the moderator dashboard
// (GET /groups/dashboard) and the admin group listing.
type GroupSummary struct {
	ID           string    `json:"_id"`
	GroupName    string    `json:"group_name"`
	CreatedBy    string    `json:"created_by"`
	PilgrimCount int       `json:"pilgrim_count"`
	CreatedAt    time.Time `json:"created_at"`
}
