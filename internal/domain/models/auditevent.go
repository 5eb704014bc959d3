// internal/domain/models/auditevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions recorded by the system.
const (
	AuditLoginSuccess      = "login_success"
	AuditLoginFailed       = "login_failed"
	AuditLogout            = "logout"
	AuditApplicationApply  = "application_apply"
	AuditApplicationVerify = "application_verify"
	AuditApplicationReject = "application_reject"
	AuditClubCreated       = "club_created"
	AuditClubUpdated       = "club_updated"
)

// AuditEvent is one row in the audit_events collection.
type AuditEvent struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Action    string              `bson:"action" json:"action"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	ActorRole string              `bson:"actor_role,omitempty" json:"actor_role,omitempty"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty" json:"target_id,omitempty"`
	ClubID    *primitive.ObjectID `bson:"club_id,omitempty" json:"club_id,omitempty"`
	Details   string              `bson:"details,omitempty" json:"details,omitempty"`
	IP        string              `bson:"ip,omitempty" json:"ip,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
