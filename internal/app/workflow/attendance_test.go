package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type guardFixture struct {
	attendance *fakeAttendance
	guard      *workflow.AttendanceGuard
	student    models.User
	club       models.Club
}

func newGuardFixture() *guardFixture {
	users := newFakeUsers()
	clubs := newFakeClubs()
	attendance := newFakeAttendance()

	return &guardFixture{
		attendance: attendance,
		guard:      workflow.NewAttendanceGuard(attendance, users, clubs, time.UTC),
		student:    users.add(models.User{FullName: "Siti", Email: "siti@example.com", Role: models.RoleStudent}),
		club:       clubs.add(models.Club{Name: "Robotics"}),
	}
}

func TestGuard_SubmitPresent(t *testing.T) {
	f := newGuardFixture()

	rec, err := f.guard.Submit(context.Background(), workflow.Submission{
		UserID: f.student.ID,
		ClubID: f.club.ID,
		Status: models.AttendancePresent,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if rec.Date != time.Now().UTC().Format(workflow.DayFormat) {
		t.Errorf("date = %q, want today", rec.Date)
	}
	if rec.UserName != "Siti" || rec.ClubName != "Robotics" {
		t.Errorf("snapshot = %q/%q, want user and club names", rec.UserName, rec.ClubName)
	}
}

func TestGuard_DuplicateDay(t *testing.T) {
	f := newGuardFixture()
	sub := workflow.Submission{
		UserID: f.student.ID,
		ClubID: f.club.ID,
		Status: models.AttendancePresent,
	}

	if _, err := f.guard.Submit(context.Background(), sub); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	_, err := f.guard.Submit(context.Background(), sub)
	if !errors.Is(err, workflow.ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission, got %v", err)
	}

	// A different status on the same day is still a duplicate.
	sub.Status = models.AttendanceExcused
	sub.Reason = "changed my mind"
	_, err = f.guard.Submit(context.Background(), sub)
	if !errors.Is(err, workflow.ErrDuplicateSubmission) {
		t.Errorf("expected ErrDuplicateSubmission for changed status, got %v", err)
	}
}

func TestGuard_ReasonRequiredWhenNotPresent(t *testing.T) {
	f := newGuardFixture()

	for _, status := range []string{models.AttendanceAbsent, models.AttendanceExcused} {
		_, err := f.guard.Submit(context.Background(), workflow.Submission{
			UserID: f.student.ID,
			ClubID: f.club.ID,
			Status: status,
		})
		if !errors.Is(err, workflow.ErrValidation) {
			t.Errorf("status %q without reason: expected ErrValidation, got %v", status, err)
		}
	}

	rec, err := f.guard.Submit(context.Background(), workflow.Submission{
		UserID: f.student.ID,
		ClubID: f.club.ID,
		Status: models.AttendanceExcused,
		Reason: "family event",
	})
	if err != nil {
		t.Fatalf("Submit with reason failed: %v", err)
	}
	if rec.Reason != "family event" {
		t.Errorf("reason = %q", rec.Reason)
	}
}

func TestGuard_UnknownStatus(t *testing.T) {
	f := newGuardFixture()

	_, err := f.guard.Submit(context.Background(), workflow.Submission{
		UserID: f.student.ID,
		ClubID: f.club.ID,
		Status: "late",
	})
	if !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestGuard_MissingUserOrClub(t *testing.T) {
	f := newGuardFixture()

	_, err := f.guard.Submit(context.Background(), workflow.Submission{
		UserID: primitive.NewObjectID(),
		ClubID: f.club.ID,
		Status: models.AttendancePresent,
	})
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}

	_, err = f.guard.Submit(context.Background(), workflow.Submission{
		UserID: f.student.ID,
		ClubID: primitive.NewObjectID(),
		Status: models.AttendancePresent,
	})
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing club, got %v", err)
	}
}

func TestGuard_SubmissionsToDifferentClubsSameDay(t *testing.T) {
	f := newGuardFixture()
	users := newFakeUsers()
	clubs := newFakeClubs()
	student := users.add(models.User{FullName: "Multi", Role: models.RoleStudent})
	first := clubs.add(models.Club{Name: "First"})
	second := clubs.add(models.Club{Name: "Second"})
	guard := workflow.NewAttendanceGuard(f.attendance, users, clubs, time.UTC)

	if _, err := guard.Submit(context.Background(), workflow.Submission{
		UserID: student.ID, ClubID: first.ID, Status: models.AttendancePresent,
	}); err != nil {
		t.Fatalf("first club Submit failed: %v", err)
	}
	if _, err := guard.Submit(context.Background(), workflow.Submission{
		UserID: student.ID, ClubID: second.ID, Status: models.AttendancePresent,
	}); err != nil {
		t.Errorf("second club Submit failed: %v", err)
	}
}

func TestGuard_History(t *testing.T) {
	f := newGuardFixture()

	if _, err := f.guard.Submit(context.Background(), workflow.Submission{
		UserID: f.student.ID, ClubID: f.club.ID, Status: models.AttendancePresent,
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	recs, err := f.guard.History(context.Background(), f.student.ID, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("history = %d records, want 1", len(recs))
	}
}
