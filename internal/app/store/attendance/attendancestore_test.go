package attendancestore_test

import (
	"errors"
	"testing"

	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Insert_UniqueDayIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	clubID := primitive.NewObjectID()
	rec := models.AttendanceRecord{
		UserID: userID,
		ClubID: clubID,
		Date:   "2026-08-31",
		Status: models.AttendancePresent,
	}

	created, err := store.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if created.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be stamped")
	}

	_, err = store.Insert(ctx, rec)
	if !errors.Is(err, attendancestore.ErrDuplicateDay) {
		t.Errorf("expected ErrDuplicateDay, got %v", err)
	}

	// A different day is fine.
	rec.Date = "2026-09-01"
	if _, err := store.Insert(ctx, rec); err != nil {
		t.Errorf("Insert for next day failed: %v", err)
	}
}

func TestStore_ExistsForDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	clubID := primitive.NewObjectID()

	exists, err := store.ExistsForDay(ctx, userID, clubID, "2026-08-31")
	if err != nil {
		t.Fatalf("ExistsForDay failed: %v", err)
	}
	if exists {
		t.Error("expected no record yet")
	}

	if _, err := store.Insert(ctx, models.AttendanceRecord{
		UserID: userID, ClubID: clubID, Date: "2026-08-31", Status: models.AttendanceExcused, Reason: "sick",
	}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	exists, err = store.ExistsForDay(ctx, userID, clubID, "2026-08-31")
	if err != nil {
		t.Fatalf("ExistsForDay failed: %v", err)
	}
	if !exists {
		t.Error("expected record to exist")
	}
}

func TestStore_Summarize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	clubID := primitive.NewObjectID()
	seed := []struct {
		date   string
		status string
	}{
		{"2026-08-01", models.AttendancePresent},
		{"2026-08-01", models.AttendancePresent},
		{"2026-08-01", models.AttendanceAbsent},
		{"2026-08-02", models.AttendanceExcused},
		{"2026-09-01", models.AttendancePresent}, // outside range
	}
	for _, s := range seed {
		if _, err := store.Insert(ctx, models.AttendanceRecord{
			UserID: primitive.NewObjectID(),
			ClubID: clubID,
			Date:   s.date,
			Status: s.status,
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	sum, err := store.Summarize(ctx, clubID, "2026-08-01", "2026-08-31")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Present != 2 || sum.Absent != 1 || sum.Excused != 1 {
		t.Errorf("summary = %+v, want 2/1/1", sum)
	}
	if sum.Total() != 4 {
		t.Errorf("total = %d, want 4", sum.Total())
	}
	if sum.PresentRate() != 50 {
		t.Errorf("present rate = %v, want 50", sum.PresentRate())
	}
}

func TestSummary_PresentRate_Empty(t *testing.T) {
	var sum attendancestore.Summary
	if sum.PresentRate() != 0 {
		t.Errorf("present rate = %v, want 0 for empty summary", sum.PresentRate())
	}
}
