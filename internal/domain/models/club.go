// internal/domain/models/club.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Club statuses.
const (
	ClubActive   = "active"
	ClubInactive = "inactive"
)

// Club represents a campus club (UKM).
//
// MemberCount is a cached aggregate, not a live count: it is incremented by
// exactly one each time a pending membership is verified, and corrected only
// by an explicit reconcile. Officer name fields are display snapshots taken
// when the officer is assigned.
type Club struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`

	ChairID      *primitive.ObjectID `bson:"chair_id,omitempty" json:"chair_id,omitempty"`
	SecretaryID  *primitive.ObjectID `bson:"secretary_id,omitempty" json:"secretary_id,omitempty"`
	SupervisorID *primitive.ObjectID `bson:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`

	ChairName      string `bson:"chair_name,omitempty" json:"chair_name,omitempty"`
	SecretaryName  string `bson:"secretary_name,omitempty" json:"secretary_name,omitempty"`
	SupervisorName string `bson:"supervisor_name,omitempty" json:"supervisor_name,omitempty"`

	MemberCount int64  `bson:"member_count" json:"member_count"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
