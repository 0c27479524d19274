// internal/domain/models/band.go
package models

import "time"

// Band status values. Soft-deleting a band sets it inactive; a hard
// (force) delete removes the document entirely.
const (
	BandActive      = "active"
	BandInactive    = "inactive"
	BandMaintenance = "maintenance"
)

// Location is a last-known position report from a band.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Band is a wearable tracker. SerialNumber and IMEI are unique.
// CurrentUserID is empty when the band is not assigned to a pilgrim.
type Band struct {
	ID             string     `json:"_id"`
	SerialNumber   string     `json:"serial_number"`
	IMEI           string     `json:"imei"`
	Status         string     `json:"status"`
	BatteryPercent *int       `json:"battery_percent,omitempty"`
	CurrentUserID  string     `json:"current_user_id,omitempty"`
	GroupID        string     `json:"group_id,omitempty"`
	LastLocation   *Location  `json:"last_location,omitempty"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

// Assigned reports whether the band is held by a pilgrim.
func (b Band) Assigned() bool { return b.CurrentUserID != "" }

// LowBattery reports a battery reading under 20 percent.
func (b Band) LowBattery() bool {
	return b.BatteryPercent != nil && *b.BatteryPercent < 20
}
