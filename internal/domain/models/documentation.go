// internal/domain/models/documentation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Documentation is an uploaded activity photo or file belonging to a club.
// The file body lives on disk under the configured upload directory; the
// document records the original and stored names plus basic metadata.
type Documentation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID   primitive.ObjectID `bson:"club_id" json:"club_id"`
	ClubName string             `bson:"club_name" json:"club_name"`

	Title    string    `bson:"title" json:"title"`
	Location string    `bson:"location,omitempty" json:"location,omitempty"`
	Date     time.Time `bson:"date" json:"date"`

	FileName    string `bson:"file_name" json:"file_name"`
	StoredName  string `bson:"stored_name" json:"stored_name"`
	ContentType string `bson:"content_type" json:"content_type"`
	Size        int64  `bson:"size" json:"size"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
