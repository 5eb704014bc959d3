package agenda

import (
	"testing"
	"time"

	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.uber.org/zap"
)

func TestMemberAgenda_ListsVerifiedClubsOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewHandler(db, uierrors.NewErrorLogger(zap.NewNop()), time.UTC, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Siti Rahma", "siti@example.com")
	robotics := fixtures.CreateClub(ctx, "Robotics")
	chess := fixtures.CreateClub(ctx, "Chess")
	fixtures.CreateMembership(ctx, student, robotics, models.MembershipVerified)
	fixtures.CreateMembership(ctx, student, chess, models.MembershipPending)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	past := fixtures.CreateAgendaItem(ctx, robotics, "Line follower demo", now.AddDate(0, 0, -7))
	future := fixtures.CreateAgendaItem(ctx, robotics, "Regional prep", now.AddDate(0, 0, 7))
	fixtures.CreateAgendaItem(ctx, chess, "Blitz night", now.AddDate(0, 0, 1))

	rows, err := handler.memberAgenda(ctx, student.ID, now)
	if err != nil {
		t.Fatalf("memberAgenda failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (pending club excluded)", len(rows))
	}

	status := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.ClubID != robotics.ID {
			t.Errorf("unexpected club %s in rows", row.ClubName)
		}
		status[row.Title] = row.Status
	}
	if status[past.Title] != "completed" {
		t.Errorf("past item status = %q, want completed", status[past.Title])
	}
	if status[future.Title] != "upcoming" {
		t.Errorf("future item status = %q, want upcoming", status[future.Title])
	}
}

func TestMemberAgenda_NoVerifiedMemberships(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewHandler(db, uierrors.NewErrorLogger(zap.NewNop()), time.UTC, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	fixtures.CreateAgendaItem(ctx, club, "Kickoff", time.Now().AddDate(0, 0, 3))

	rows, err := handler.memberAgenda(ctx, student.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("memberAgenda failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0 for a non-member", len(rows))
	}
}
