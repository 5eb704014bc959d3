// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership states. Pending is the only non-terminal state: a record moves
// to verified or rejected exactly once and never transitions again.
const (
	MembershipPending  = "pending"
	MembershipVerified = "verified"
	MembershipRejected = "rejected"
)

// IsMembershipStatus reports whether s is a recognized membership state.
func IsMembershipStatus(s string) bool {
	return s == MembershipPending || s == MembershipVerified || s == MembershipRejected
}

// Membership links one user to one club.
//
// The applicant fields (FullName, Email, Faculty, Department, Reason) are a
// snapshot captured at application time; later profile edits do not change
// what an officer sees on the queue or roster.
type Membership struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	ClubID primitive.ObjectID `bson:"club_id" json:"club_id"`

	FullName   string `bson:"full_name" json:"full_name"`
	Email      string `bson:"email" json:"email"`
	Faculty    string `bson:"faculty" json:"faculty"`
	Department string `bson:"department" json:"department"`
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`

	Status     string     `bson:"status" json:"status"`
	AppliedAt  time.Time  `bson:"applied_at" json:"applied_at"`
	VerifiedAt *time.Time `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
}
