package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ukmhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// ErrDuplicateDay is returned when the unique (user, club, date) index
// rejects a second submission for the same calendar day.
var ErrDuplicateDay = errors.New("attendance already submitted for this day")

// ExistsForDay reports whether the user already submitted attendance for the
// club on the given day. Date is a "YYYY-MM-DD" string.
func (s *Store) ExistsForDay(ctx context.Context, userID, clubID primitive.ObjectID, date string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"user_id": userID,
		"club_id": clubID,
		"date":    date,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Insert writes one attendance record, stamping ID and SubmittedAt. The
// unique day index is the last line of defense against racing duplicates;
// a collision surfaces as ErrDuplicateDay.
func (s *Store) Insert(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error) {
	rec.ID = primitive.NewObjectID()
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		if wafflemongo.IsDup(err) {
			return models.AttendanceRecord{}, ErrDuplicateDay
		}
		return models.AttendanceRecord{}, err
	}
	return rec, nil
}

// ListByClubAndDay returns a club's attendance for one day, newest first.
func (s *Store) ListByClubAndDay(ctx context.Context, clubID primitive.ObjectID, date string) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID, "date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByUser returns a user's attendance history, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "submitted_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Summary is a per-status tally for one club and day range.
type Summary struct {
	Present int64
	Absent  int64
	Excused int64
}

// Total returns the number of submissions in the summary.
func (s Summary) Total() int64 { return s.Present + s.Absent + s.Excused }

// PresentRate returns present submissions as a percentage of the total,
// or 0 when there are no submissions.
func (s Summary) PresentRate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Present) * 100 / float64(total)
}

// Summarize tallies a club's attendance by status over an inclusive date
// range of "YYYY-MM-DD" strings. Lexicographic order matches calendar order
// for this format.
func (s *Store) Summarize(ctx context.Context, clubID primitive.ObjectID, fromDate, toDate string) (Summary, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"club_id": clubID,
			"date":    bson.M{"$gte": fromDate, "$lte": toDate},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return Summary{}, err
	}
	defer cur.Close(ctx)

	var sum Summary
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return Summary{}, err
		}
		switch row.Status {
		case models.AttendancePresent:
			sum.Present = row.Count
		case models.AttendanceAbsent:
			sum.Absent = row.Count
		case models.AttendanceExcused:
			sum.Excused = row.Count
		}
	}
	return sum, cur.Err()
}
