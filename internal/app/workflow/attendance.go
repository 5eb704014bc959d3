package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/system/htmlsanitize"
	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DayFormat is the attendance day key layout.
const DayFormat = "2006-01-02"

// AttendanceGuard enforces the one-submission-per-day rule.
type AttendanceGuard struct {
	attendance AttendanceStore
	users      UserStore
	clubs      ClubStore
	loc        *time.Location
}

// NewAttendanceGuard builds a guard that keys days in loc. Pass nil to use
// the server's local time zone.
func NewAttendanceGuard(attendance AttendanceStore, users UserStore, clubs ClubStore, loc *time.Location) *AttendanceGuard {
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceGuard{attendance: attendance, users: users, clubs: clubs, loc: loc}
}

// Submission is one attendance entry for today.
type Submission struct {
	UserID primitive.ObjectID
	ClubID primitive.ObjectID
	Status string
	Reason string
}

// Submit records today's attendance for the user. A status other than
// present requires a reason. A second submission for the same user, club,
// and day returns ErrDuplicateSubmission.
func (g *AttendanceGuard) Submit(ctx context.Context, sub Submission) (*models.AttendanceRecord, error) {
	if !models.IsAttendanceStatus(sub.Status) {
		return nil, fmt.Errorf("%w: unknown attendance status %q", ErrValidation, sub.Status)
	}
	sub.Reason = htmlsanitize.Text(sub.Reason)
	if sub.Status != models.AttendancePresent && sub.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required when not present", ErrValidation)
	}

	user, err := g.users.GetByID(ctx, sub.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", sub.UserID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	club, err := g.clubs.GetByID(ctx, sub.ClubID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("club %s: %w", sub.ClubID.Hex(), ErrNotFound)
		}
		return nil, err
	}

	day := time.Now().In(g.loc).Format(DayFormat)

	exists, err := g.attendance.ExistsForDay(ctx, sub.UserID, sub.ClubID, day)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("attendance for %s: %w", day, ErrDuplicateSubmission)
	}

	rec, err := g.attendance.Insert(ctx, models.AttendanceRecord{
		UserID:      sub.UserID,
		ClubID:      sub.ClubID,
		UserName:    user.FullName,
		ClubName:    club.Name,
		Date:        day,
		Status:      sub.Status,
		Reason:      sub.Reason,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, attendancestore.ErrDuplicateDay) {
			// Lost the race between the existence check and the insert.
			return nil, fmt.Errorf("attendance for %s: %w", day, ErrDuplicateSubmission)
		}
		return nil, err
	}
	return &rec, nil
}

// History returns the user's recent attendance, newest first.
func (g *AttendanceGuard) History(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	return g.attendance.ListByUser(ctx, userID, limit)
}
