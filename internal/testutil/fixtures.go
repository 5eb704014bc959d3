package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given parameters.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		AuthMethod: "password",
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateStudent creates a test student user.
func (f *Fixtures) CreateStudent(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleStudent)
}

// CreateOfficer creates a test user with the given officer role.
func (f *Fixtures) CreateOfficer(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()
	if !models.IsOfficerRole(role) {
		f.t.Fatalf("CreateOfficer called with non-officer role %q", role)
	}
	return f.CreateUser(ctx, fullName, email, role)
}

// CreateClub creates a test club with no officers.
func (f *Fixtures) CreateClub(ctx context.Context, name string) models.Club {
	f.t.Helper()
	return f.CreateClubWithOfficers(ctx, name, nil, nil, nil)
}

// CreateClubWithOfficers creates a test club with the given officer references.
func (f *Fixtures) CreateClubWithOfficers(ctx context.Context, name string, chairID, secretaryID, supervisorID *primitive.ObjectID) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Status:       models.ClubActive,
		ChairID:      chairID,
		SecretaryID:  secretaryID,
		SupervisorID: supervisorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("failed to create test club: %v", err)
	}
	return club
}

// CreateMembership creates a test membership application in the given status.
func (f *Fixtures) CreateMembership(ctx context.Context, user models.User, club models.Club, status string) models.Membership {
	f.t.Helper()

	m := models.Membership{
		ID:         primitive.NewObjectID(),
		UserID:     user.ID,
		ClubID:     club.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		Faculty:    user.Faculty,
		Department: user.Department,
		Reason:     "test application",
		Status:     status,
		AppliedAt:  time.Now().UTC(),
	}
	if status == models.MembershipVerified {
		now := time.Now().UTC()
		m.VerifiedAt = &now
	}

	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateAgendaItem creates a test agenda item for the club on the given date.
func (f *Fixtures) CreateAgendaItem(ctx context.Context, club models.Club, title string, date time.Time) models.AgendaItem {
	f.t.Helper()

	item := models.AgendaItem{
		ID:        primitive.NewObjectID(),
		ClubID:    club.ID,
		ClubName:  club.Name,
		Title:     title,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("agenda").InsertOne(ctx, item); err != nil {
		f.t.Fatalf("failed to create test agenda item: %v", err)
	}
	return item
}
