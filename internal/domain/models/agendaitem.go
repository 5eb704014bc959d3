// internal/domain/models/agendaitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Derived agenda display statuses. Never stored; computed against "now" on
// every read by the agendastatus classifier.
const (
	AgendaUpcoming  = "upcoming"
	AgendaCompleted = "completed"
)

// AgendaItem is a scheduled club event. Date carries only calendar-day
// precision; the classifier compares it against start-of-today in the
// reporting timezone.
type AgendaItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClubID   primitive.ObjectID `bson:"club_id" json:"club_id"`
	ClubName string             `bson:"club_name" json:"club_name"`

	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Date        time.Time `bson:"date" json:"date"`
	Location    string    `bson:"location" json:"location"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
