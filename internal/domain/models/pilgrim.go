// internal/domain/models/pilgrim.go
package models

// Pilgrim is a tracked person. National id is unique service-wide; the
// band reference is at most one and arrives embedded as band_info on
// group detail responses.
type Pilgrim struct {
	ID             string `json:"_id"`
	FullName       string `json:"full_name"`
	NationalID     string `json:"national_id"`
	Email          string `json:"email,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Gender         string `json:"gender,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	BandInfo       *Band  `json:"band_info,omitempty"`
}

// HasBand reports whether a band is currently assigned.
func (p Pilgrim) HasBand() bool { return p.BandInfo != nil }

// Located reports whether the assigned band has reported a position.
func (p Pilgrim) Located() bool {
	return p.BandInfo != nil && p.BandInfo.LastLocation != nil
}
