package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/ukmhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Engine drives the membership lifecycle. All state transitions and the
// member-count aggregate go through here so the rules live in one place.
type Engine struct {
	users       UserStore
	clubs       ClubStore
	memberships MembershipStore
}

func NewEngine(users UserStore, clubs ClubStore, memberships MembershipStore) *Engine {
	return &Engine{users: users, clubs: clubs, memberships: memberships}
}

// Application is a student's request to join a club. Name, email, faculty,
// and department are snapshotted onto the membership so the officer queue
// shows them as they were at application time.
type Application struct {
	UserID     primitive.ObjectID
	ClubID     primitive.ObjectID
	FullName   string
	Email      string
	Faculty    string
	Department string
	Reason     string
}

// maxSnapshotField bounds the name, email, faculty, and department snapshots
// stored on a membership. Reason is free text and stays unbounded.
const maxSnapshotField = 150

func (a *Application) validate() error {
	a.FullName = normalize.Name(a.FullName)
	a.Email = normalize.Email(a.Email)
	a.Faculty = htmlsanitize.Text(a.Faculty)
	a.Department = htmlsanitize.Text(a.Department)
	a.Reason = htmlsanitize.Text(a.Reason)

	if a.FullName == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if !normalize.EmailValid(a.Email) {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if a.Faculty == "" {
		return fmt.Errorf("%w: faculty is required", ErrValidation)
	}
	if a.Department == "" {
		return fmt.Errorf("%w: department is required", ErrValidation)
	}
	if a.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrValidation)
	}
	for name, v := range map[string]string{
		"full name":  a.FullName,
		"email":      a.Email,
		"faculty":    a.Faculty,
		"department": a.Department,
	} {
		if utf8.RuneCountInString(v) > maxSnapshotField {
			return fmt.Errorf("%w: %s is too long", ErrValidation, name)
		}
	}
	return nil
}

// Apply submits a club application. The membership starts pending and does
// not touch the member count. A user may hold several applications, including
// several for the same club; officers resolve duplicates from their queue.
func (e *Engine) Apply(ctx context.Context, app Application) (*models.Membership, error) {
	if err := app.validate(); err != nil {
		return nil, err
	}

	if _, err := e.users.GetByID(ctx, app.UserID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", app.UserID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	club, err := e.clubs.GetByID(ctx, app.ClubID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("club %s: %w", app.ClubID.Hex(), ErrNotFound)
		}
		return nil, err
	}
	if club.Status != models.ClubActive {
		return nil, fmt.Errorf("%w: club is not accepting applications", ErrValidation)
	}

	m, err := e.memberships.Insert(ctx, models.Membership{
		UserID:     app.UserID,
		ClubID:     app.ClubID,
		FullName:   app.FullName,
		Email:      app.Email,
		Faculty:    app.Faculty,
		Department: app.Department,
		Reason:     app.Reason,
		Status:     models.MembershipPending,
		AppliedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Verify moves a pending application to verified, stamps VerifiedAt, and
// increments the club's member count. The transition is conditional on the
// current status, so two officers racing on the same application produce
// exactly one increment; the loser gets ErrInvalidStateTransition.
func (e *Engine) Verify(ctx context.Context, clubID, membershipID primitive.ObjectID) (*models.Membership, error) {
	now := time.Now()
	m, err := e.memberships.Transition(ctx, clubID, membershipID, models.MembershipPending, models.MembershipVerified, &now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.classifyTransitionMiss(ctx, clubID, membershipID)
		}
		return nil, err
	}

	if err := e.clubs.IncMemberCount(ctx, clubID, 1); err != nil {
		// The membership is verified but the cached count is now stale.
		// Reconcile repairs it; surface the error so the caller knows.
		return m, fmt.Errorf("membership verified but member count update failed: %w", err)
	}
	return m, nil
}

// Reject moves a pending application to rejected. The member count is
// untouched because pending applications were never counted.
func (e *Engine) Reject(ctx context.Context, clubID, membershipID primitive.ObjectID) (*models.Membership, error) {
	m, err := e.memberships.Transition(ctx, clubID, membershipID, models.MembershipPending, models.MembershipRejected, nil)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, e.classifyTransitionMiss(ctx, clubID, membershipID)
		}
		return nil, err
	}
	return m, nil
}

// classifyTransitionMiss distinguishes a membership that does not exist (or
// belongs to another club) from one that exists but is no longer pending.
func (e *Engine) classifyTransitionMiss(ctx context.Context, clubID, membershipID primitive.ObjectID) error {
	m, err := e.memberships.GetByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("membership %s: %w", membershipID.Hex(), ErrNotFound)
		}
		return err
	}
	if m.ClubID != clubID {
		return fmt.Errorf("membership %s: %w", membershipID.Hex(), ErrNotFound)
	}
	return fmt.Errorf("membership is %s: %w", m.Status, ErrInvalidStateTransition)
}

// ListByClub returns a club's applications, optionally filtered by status.
// An unknown status is a validation error rather than an empty result.
func (e *Engine) ListByClub(ctx context.Context, clubID primitive.ObjectID, status string) ([]models.Membership, error) {
	if status != "" && !models.IsMembershipStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return e.memberships.ListByClub(ctx, clubID, status)
}

// CountByClub counts a club's applications in the given status.
func (e *Engine) CountByClub(ctx context.Context, clubID primitive.ObjectID, status string) (int64, error) {
	if status != "" && !models.IsMembershipStatus(status) {
		return 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return e.memberships.CountByClub(ctx, clubID, status)
}

// ListByUser returns a user's applications across clubs.
func (e *Engine) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	return e.memberships.ListByUser(ctx, userID, "")
}

// ReconcileMemberCount recomputes a club's member count from the verified
// memberships and overwrites the cached aggregate. Returns the authoritative
// count.
func (e *Engine) ReconcileMemberCount(ctx context.Context, clubID primitive.ObjectID) (int64, error) {
	if _, err := e.clubs.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("club %s: %w", clubID.Hex(), ErrNotFound)
		}
		return 0, err
	}

	count, err := e.memberships.CountByClub(ctx, clubID, models.MembershipVerified)
	if err != nil {
		return 0, err
	}
	if err := e.clubs.SetMemberCount(ctx, clubID, count); err != nil {
		return 0, err
	}
	return count, nil
}
