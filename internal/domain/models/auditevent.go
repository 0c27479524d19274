// internal/domain/models/auditevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded for admin operations against the fleet.
const (
	AuditBandRegister    = "band.register"
	AuditBandActivate    = "band.activate"
	AuditBandDeactivate  = "band.deactivate"
	AuditBandForceDelete = "band.force_delete"
	AuditGroupDelete     = "group.delete"
	AuditUserRoleChange  = "user.role_change"
	AuditUserStatus      = "user.status_change"
)

// AuditEvent is a dashboard-local record of an irreversible or
// privilege-sensitive admin action.
type AuditEvent struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Action    string             `bson:"action" json:"action"`
	ActorID   string             `bson:"actor_id" json:"actor_id"`
	ActorName string             `bson:"actor_name" json:"actor_name"`
	Subject   string             `bson:"subject" json:"subject"`
	Detail    string             `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
