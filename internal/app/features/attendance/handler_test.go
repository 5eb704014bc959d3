package attendance_test

import (
	"testing"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/features/attendance"
	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*attendance.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return attendance.NewHandler(db, errLog, time.UTC, logger), db
}

func studentUser(u models.User) testutil.TestUser {
	return testutil.TestUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  models.RoleStudent,
	}
}

func TestHandleSubmit_RecordsToday(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Siti Rahma", "siti@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	fixtures.CreateMembership(ctx, student, club, models.MembershipVerified)

	req := testutil.NewFormRequest("/attendance", map[string]string{
		"club_id": club.ID.Hex(),
		"status":  "present",
	}, studentUser(student))
	rec := testutil.NewRecorder()

	handler.HandleSubmit(rec, req)

	rec.AssertRedirect(t, "/attendance?submitted=1")

	today := time.Now().UTC().Format(workflow.DayFormat)
	exists, err := attendancestore.New(db).ExistsForDay(ctx, student.ID, club.ID, today)
	if err != nil {
		t.Fatalf("ExistsForDay failed: %v", err)
	}
	if !exists {
		t.Error("no attendance record for today")
	}
}

func TestHandleSubmit_SecondSubmissionSameDayRedirectsDuplicate(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Siti Rahma", "siti@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	fixtures.CreateMembership(ctx, student, club, models.MembershipVerified)

	form := map[string]string{"club_id": club.ID.Hex(), "status": "present"}

	first := testutil.NewRecorder()
	handler.HandleSubmit(first, testutil.NewFormRequest("/attendance", form, studentUser(student)))
	first.AssertRedirect(t, "/attendance?submitted=1")

	second := testutil.NewRecorder()
	handler.HandleSubmit(second, testutil.NewFormRequest("/attendance", form, studentUser(student)))
	second.AssertRedirect(t, "/attendance?error=duplicate")
}

func TestHandleSubmit_RejectsNonMember(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Siti Rahma", "siti@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	// Pending only: not yet allowed to submit attendance.
	fixtures.CreateMembership(ctx, student, club, models.MembershipPending)

	req := testutil.NewFormRequest("/attendance", map[string]string{
		"club_id": club.ID.Hex(),
		"status":  "present",
	}, studentUser(student))
	rec := testutil.NewRecorder()

	renderSafely(func() { handler.HandleSubmit(rec, req) })

	today := time.Now().UTC().Format(workflow.DayFormat)
	exists, err := attendancestore.New(db).ExistsForDay(ctx, student.ID, club.ID, today)
	if err != nil {
		t.Fatalf("ExistsForDay failed: %v", err)
	}
	if exists {
		t.Error("attendance recorded for non-verified member")
	}
}

// renderSafely runs fn and swallows a template-rendering panic; error pages
// need the template engine, which tests do not boot.
func renderSafely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
