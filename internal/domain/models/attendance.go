// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

// IsAttendanceStatus reports whether s is a recognized attendance status.
func IsAttendanceStatus(s string) bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceExcused
}

// AttendanceRecord is one attendance submission. At most one record per
// (user, club, date), enforced by a unique index. Date is a "YYYY-MM-DD"
// string in the reporting timezone, matching how submissions are keyed to
// a calendar day.
type AttendanceRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	ClubID   primitive.ObjectID `bson:"club_id" json:"club_id"`
	UserName string             `bson:"user_name" json:"user_name"`
	ClubName string             `bson:"club_name" json:"club_name"`

	Date   string `bson:"date" json:"date"`
	Status string `bson:"status" json:"status"`
	Reason string `bson:"reason,omitempty" json:"reason,omitempty"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}
