package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type engineFixture struct {
	users       *fakeUsers
	clubs       *fakeClubs
	memberships *fakeMemberships
	engine      *workflow.Engine
	student     models.User
	club        models.Club
}

func newEngineFixture() *engineFixture {
	users := newFakeUsers()
	clubs := newFakeClubs()
	memberships := newFakeMemberships()

	return &engineFixture{
		users:       users,
		clubs:       clubs,
		memberships: memberships,
		engine:      workflow.NewEngine(users, clubs, memberships),
		student:     users.add(models.User{FullName: "Siti Rahma", Email: "siti@example.com", Role: models.RoleStudent}),
		club:        clubs.add(models.Club{Name: "Robotics"}),
	}
}

func (f *engineFixture) application() workflow.Application {
	return workflow.Application{
		UserID:     f.student.ID,
		ClubID:     f.club.ID,
		FullName:   f.student.FullName,
		Email:      f.student.Email,
		Faculty:    "Engineering",
		Department: "Mechatronics",
		Reason:     "I want to build robots",
	}
}

func TestEngine_Apply(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if m.Status != models.MembershipPending {
		t.Errorf("status = %q, want pending", m.Status)
	}
	if m.AppliedAt.IsZero() {
		t.Error("expected AppliedAt to be stamped")
	}
	if m.VerifiedAt != nil {
		t.Error("expected VerifiedAt to be unset")
	}

	// Pending applications must not touch the member count.
	club, _ := f.clubs.GetByID(ctx, f.club.ID)
	if club.MemberCount != 0 {
		t.Errorf("member count = %d, want 0 after apply", club.MemberCount)
	}
}

func TestEngine_Apply_Validation(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*workflow.Application)
	}{
		{"empty name", func(a *workflow.Application) { a.FullName = "  " }},
		{"bad email", func(a *workflow.Application) { a.Email = "not-an-email" }},
		{"empty faculty", func(a *workflow.Application) { a.Faculty = "" }},
		{"empty department", func(a *workflow.Application) { a.Department = "" }},
		{"overlong name", func(a *workflow.Application) { a.FullName = strings.Repeat("a", 151) }},
		{"overlong faculty", func(a *workflow.Application) { a.Faculty = strings.Repeat("f", 151) }},
		{"overlong department", func(a *workflow.Application) { a.Department = strings.Repeat("d", 151) }},
		{"empty reason", func(a *workflow.Application) { a.Reason = "" }},
		{"markup-only reason", func(a *workflow.Application) { a.Reason = "<script>x()</script>" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := f.application()
			tc.mutate(&app)
			_, err := f.engine.Apply(ctx, app)
			if !errors.Is(err, workflow.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestEngine_Apply_SanitizesReason(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	app := f.application()
	app.Reason = "I <b>really</b> want to join"
	m, err := f.engine.Apply(ctx, app)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if m.Reason != "I really want to join" {
		t.Errorf("reason = %q, want markup stripped", m.Reason)
	}
}

func TestEngine_Apply_MissingUserOrClub(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	app := f.application()
	app.UserID = primitive.NewObjectID()
	if _, err := f.engine.Apply(ctx, app); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}

	app = f.application()
	app.ClubID = primitive.NewObjectID()
	if _, err := f.engine.Apply(ctx, app); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing club, got %v", err)
	}
}

func TestEngine_Apply_InactiveClub(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	dormant := f.clubs.add(models.Club{Name: "Dormant", Status: models.ClubInactive})
	app := f.application()
	app.ClubID = dormant.ID
	if _, err := f.engine.Apply(ctx, app); !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("expected ErrValidation for inactive club, got %v", err)
	}
}

func TestEngine_Apply_DuplicateApplicationsAllowed(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	if _, err := f.engine.Apply(ctx, f.application()); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	if _, err := f.engine.Apply(ctx, f.application()); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}

	pending, err := f.engine.ListByClub(ctx, f.club.ID, models.MembershipPending)
	if err != nil {
		t.Fatalf("ListByClub failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2 (duplicates are allowed)", len(pending))
	}
}

func TestEngine_VerifyLifecycle(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	verified, err := f.engine.Verify(ctx, f.club.ID, m.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.Status != models.MembershipVerified {
		t.Errorf("status = %q, want verified", verified.Status)
	}
	if verified.VerifiedAt == nil {
		t.Error("expected VerifiedAt to be stamped")
	}

	club, _ := f.clubs.GetByID(ctx, f.club.ID)
	if club.MemberCount != 1 {
		t.Errorf("member count = %d, want 1 after verify", club.MemberCount)
	}

	// Re-verifying must fail and must not change the count.
	_, err = f.engine.Verify(ctx, f.club.ID, m.ID)
	if !errors.Is(err, workflow.ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition on re-verify, got %v", err)
	}
	club, _ = f.clubs.GetByID(ctx, f.club.ID)
	if club.MemberCount != 1 {
		t.Errorf("member count = %d, want 1 after failed re-verify", club.MemberCount)
	}
}

func TestEngine_Reject(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	rejected, err := f.engine.Reject(ctx, f.club.ID, m.ID)
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != models.MembershipRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
	if rejected.VerifiedAt != nil {
		t.Error("expected VerifiedAt to stay unset on reject")
	}

	club, _ := f.clubs.GetByID(ctx, f.club.ID)
	if club.MemberCount != 0 {
		t.Errorf("member count = %d, want 0 after reject", club.MemberCount)
	}

	// A rejected application cannot be verified.
	if _, err := f.engine.Verify(ctx, f.club.ID, m.ID); !errors.Is(err, workflow.ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestEngine_Verify_NotFoundCases(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	if _, err := f.engine.Verify(ctx, f.club.ID, primitive.NewObjectID()); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing membership, got %v", err)
	}

	// A membership in another club is not visible to this club's officers.
	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	otherClub := f.clubs.add(models.Club{Name: "Chess"})
	if _, err := f.engine.Verify(ctx, otherClub.ID, m.ID); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for cross-club verify, got %v", err)
	}
}

func TestEngine_ListByClub_RejectsUnknownStatus(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	if _, err := f.engine.ListByClub(ctx, f.club.ID, "limbo"); !errors.Is(err, workflow.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestEngine_ReconcileMemberCount(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	// Two verified members, one pending, one rejected.
	for i := 0; i < 2; i++ {
		u := f.users.add(models.User{FullName: "Member", Email: "m@example.com", Role: models.RoleStudent})
		app := f.application()
		app.UserID = u.ID
		m, err := f.engine.Apply(ctx, app)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if _, err := f.engine.Verify(ctx, f.club.ID, m.ID); err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
	}
	if _, err := f.engine.Apply(ctx, f.application()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if _, err := f.engine.Reject(ctx, f.club.ID, m.ID); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	// Corrupt the cached aggregate, then reconcile.
	if err := f.clubs.SetMemberCount(ctx, f.club.ID, 99); err != nil {
		t.Fatalf("SetMemberCount failed: %v", err)
	}

	count, err := f.engine.ReconcileMemberCount(ctx, f.club.ID)
	if err != nil {
		t.Fatalf("ReconcileMemberCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	club, _ := f.clubs.GetByID(ctx, f.club.ID)
	if club.MemberCount != 2 {
		t.Errorf("member count = %d, want 2 after reconcile", club.MemberCount)
	}

	if _, err := f.engine.ReconcileMemberCount(ctx, primitive.NewObjectID()); !errors.Is(err, workflow.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing club, got %v", err)
	}
}

func TestEngine_MembershipSnapshotIsStable(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// The snapshot keeps the values from application time even if the user
	// record changes later.
	changed := f.student
	changed.FullName = "Renamed"
	f.users.add(changed)

	verified, err := f.engine.Verify(ctx, f.club.ID, m.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.FullName != "Siti Rahma" {
		t.Errorf("snapshot name = %q, want original", verified.FullName)
	}
}

func TestEngine_VerifiedAtOrdering(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	m, err := f.engine.Apply(ctx, f.application())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	verified, err := f.engine.Verify(ctx, f.club.ID, m.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !verified.VerifiedAt.After(verified.AppliedAt) {
		t.Errorf("VerifiedAt %v not after AppliedAt %v", verified.VerifiedAt, verified.AppliedAt)
	}
}
