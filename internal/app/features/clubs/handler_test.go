package clubs_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/ukmhub/internal/app/features/clubs"
	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/ukmhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*clubs.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)
	return clubs.NewHandler(db, errLog, nil, logger), db
}

func TestHandleApply_CreatesPendingMembership(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Siti Rahma", "siti@example.com")
	club := fixtures.CreateClub(ctx, "Robotics")

	req := testutil.NewFormRequest("/clubs/"+club.ID.Hex()+"/apply", map[string]string{
		"full_name":  "Siti Rahma",
		"email":      "siti@example.com",
		"faculty":    "Engineering",
		"department": "Mechatronics",
		"reason":     "I want to build robots",
	}, testutil.TestUser{
		ID:    student.ID.Hex(),
		Name:  student.FullName,
		Email: student.Email,
		Role:  "student",
	})
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleApply(rec, req)

	rec.AssertRedirect(t, "/clubs/"+club.ID.Hex()+"?applied=1")

	pending, err := membershipstore.New(db).ListByClub(ctx, club.ID, models.MembershipPending)
	if err != nil {
		t.Fatalf("ListByClub failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].UserID != student.ID || pending[0].FullName != "Siti Rahma" {
		t.Errorf("membership = %+v", pending[0])
	}
}

func TestHandleApply_RequiresStudentRole(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Robotics")
	admin := testutil.AdminUser()

	req := testutil.NewFormRequest("/clubs/"+club.ID.Hex()+"/apply", map[string]string{
		"full_name": "Admin",
		"email":     "admin@test.com",
		"reason":    "testing",
	}, admin)
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	rec := testutil.NewRecorder()

	renderSafely(func() { handler.HandleApply(rec, req) })

	pending, err := membershipstore.New(db).ListByClub(ctx, club.ID, models.MembershipPending)
	if err != nil {
		t.Fatalf("ListByClub failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending = %d, want 0 for non-student", len(pending))
	}
}

func TestHandleAssignOfficer_PromotesUser(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fixtures.CreateStudent(ctx, "Ani Wijaya", "ani@example.com")
	club := fixtures.CreateClub(ctx, "Chess")

	req := testutil.NewFormRequest("/admin/clubs/"+club.ID.Hex()+"/officers", map[string]string{
		"position": "chair",
		"email":    "ani@example.com",
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleAssignOfficer(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)

	got, err := handler.Clubs.GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ChairID == nil || *got.ChairID != student.ID {
		t.Errorf("chair = %v, want %v", got.ChairID, student.ID)
	}
	if got.ChairName != "Ani Wijaya" {
		t.Errorf("chair name = %q", got.ChairName)
	}

	user, err := userstore.New(db).GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if user.Role != models.RoleChair {
		t.Errorf("role = %q, want chair", user.Role)
	}
}

func TestHandleAssignOfficer_ClearDemotesToStudent(t *testing.T) {
	handler, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	chair := fixtures.CreateOfficer(ctx, "Chair", "chair@example.com", "chair")
	club := fixtures.CreateClubWithOfficers(ctx, "Choir", &chair.ID, nil, nil)

	req := testutil.NewFormRequest("/admin/clubs/"+club.ID.Hex()+"/officers", map[string]string{
		"position": "chair",
		"email":    "",
	}, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", club.ID.Hex())
	rec := testutil.NewRecorder()

	handler.HandleAssignOfficer(rec, req)

	rec.AssertStatus(t, http.StatusSeeOther)

	got, err := handler.Clubs.GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ChairID != nil {
		t.Errorf("chair = %v, want cleared", got.ChairID)
	}

	user, err := userstore.New(db).GetByID(ctx, chair.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("role = %q, want student after demotion", user.Role)
	}
}

// renderSafely runs fn and swallows a template-rendering panic; error pages
// need the template engine booted, which these tests do not do.
func renderSafely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
