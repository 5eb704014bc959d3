package workflow

import (
	"context"
	"time"

	attendancestore "github.com/dalemusser/ukmhub/internal/app/store/attendance"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces below are the slices of the Mongo stores the workflow
// needs. Implementations report missing documents as mongo.ErrNoDocuments.

type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type ClubStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error)
	ListByOfficer(ctx context.Context, role string, userID primitive.ObjectID) ([]models.Club, error)
	IncMemberCount(ctx context.Context, id primitive.ObjectID, delta int64) error
	SetMemberCount(ctx context.Context, id primitive.ObjectID, count int64) error
}

type MembershipStore interface {
	Insert(ctx context.Context, m models.Membership) (models.Membership, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Membership, error)
	Transition(ctx context.Context, clubID, id primitive.ObjectID, fromStatus, toStatus string, verifiedAt *time.Time) (*models.Membership, error)
	ListByClub(ctx context.Context, clubID primitive.ObjectID, status string) ([]models.Membership, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Membership, error)
	CountByClub(ctx context.Context, clubID primitive.ObjectID, status string) (int64, error)
}

type AttendanceStore interface {
	ExistsForDay(ctx context.Context, userID, clubID primitive.ObjectID, date string) (bool, error)
	Insert(ctx context.Context, rec models.AttendanceRecord) (models.AttendanceRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.AttendanceRecord, error)
}

var (
	_ UserStore       = (*userstore.Store)(nil)
	_ ClubStore       = (*clubstore.Store)(nil)
	_ MembershipStore = (*membershipstore.Store)(nil)
	_ AttendanceStore = (*attendancestore.Store)(nil)
)
