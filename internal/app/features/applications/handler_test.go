package applications_test

import (
	"testing"

	"github.com/dalemusser/ukmhub/internal/app/features/applications"
	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*applications.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return applications.NewHandler(db, errLog, nil, logger), db
}

func TestHandleVerify_TransitionsAndIncrementsCount(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	membership := fixtures.CreateMembership(ctx, student, club, models.MembershipPending)

	req := testutil.NewFormRequest("/applications/"+membership.ID.Hex()+"/verify", nil,
		testutil.OfficerUser("chair", club.ID, club.Name))
	req = testutil.WithChiURLParam(req, "id", membership.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleVerify(rec, req)

	rec.AssertRedirect(t, "/applications?verified=1")

	got, err := membershipstore.New(db).GetByID(ctx, membership.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.MembershipVerified {
		t.Errorf("status = %q, want verified", got.Status)
	}
	if got.VerifiedAt == nil {
		t.Error("VerifiedAt not set")
	}

	gotClub, err := clubstore.New(db).GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("club GetByID failed: %v", err)
	}
	if gotClub.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", gotClub.MemberCount)
	}
}

func TestHandleVerify_AlreadyDecided(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	membership := fixtures.CreateMembership(ctx, student, club, models.MembershipRejected)

	req := testutil.NewFormRequest("/applications/"+membership.ID.Hex()+"/verify", nil,
		testutil.OfficerUser("chair", club.ID, club.Name))
	req = testutil.WithChiURLParam(req, "id", membership.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleVerify(rec, req)

	rec.AssertRedirect(t, "/applications?error=already_decided")

	gotClub, err := clubstore.New(db).GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("club GetByID failed: %v", err)
	}
	if gotClub.MemberCount != 0 {
		t.Errorf("member count = %d, want 0 after failed verify", gotClub.MemberCount)
	}
}

func TestHandleVerify_OtherClubsApplicationIsNotFound(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	otherClub := fixtures.CreateClub(ctx, "Chess")
	membership := fixtures.CreateMembership(ctx, student, club, models.MembershipPending)

	// Officer of a different club tries to verify Robotics' application.
	req := testutil.NewFormRequest("/applications/"+membership.ID.Hex()+"/verify", nil,
		testutil.OfficerUser("chair", otherClub.ID, otherClub.Name))
	req = testutil.WithChiURLParam(req, "id", membership.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleVerify(rec, req)

	rec.AssertRedirect(t, "/applications?error=not_found")

	got, err := membershipstore.New(db).GetByID(ctx, membership.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.MembershipPending {
		t.Errorf("status = %q, want still pending", got.Status)
	}
}

func TestHandleReject_TransitionsWithoutCountChange(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Budi Santoso", "budi@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")
	membership := fixtures.CreateMembership(ctx, student, club, models.MembershipPending)

	req := testutil.NewFormRequest("/applications/"+membership.ID.Hex()+"/reject", nil,
		testutil.OfficerUser("secretary", club.ID, club.Name))
	req = testutil.WithChiURLParam(req, "id", membership.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleReject(rec, req)

	rec.AssertRedirect(t, "/applications?rejected=1")

	got, err := membershipstore.New(db).GetByID(ctx, membership.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.MembershipRejected {
		t.Errorf("status = %q, want rejected", got.Status)
	}

	gotClub, err := clubstore.New(db).GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("club GetByID failed: %v", err)
	}
	if gotClub.MemberCount != 0 {
		t.Errorf("member count = %d, want 0 after reject", gotClub.MemberCount)
	}
}
