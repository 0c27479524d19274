// internal/domain/models/sessionrecord.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionRecord is a dashboard-local document tracking one sign-in.
// Only a SHA-256 digest of the service token is stored, never the token.
type SessionRecord struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	UserName    string             `bson:"user_name" json:"user_name"`
	Role        string             `bson:"role" json:"role"`
	TokenDigest string             `bson:"token_digest" json:"-"`
	StartedAt   time.Time          `bson:"started_at" json:"started_at"`
	LastSeenAt  time.Time          `bson:"last_seen_at" json:"last_seen_at"`
	EndedAt     *time.Time         `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	EndReason   string             `bson:"end_reason,omitempty" json:"end_reason,omitempty"`
}

// Active reports whether the session has not been closed.
func (s SessionRecord) Active() bool { return s.EndedAt == nil }
