package workflow

import (
	"context"
	"errors"

	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Affiliation is the resolved role and club context for a user.
type Affiliation struct {
	Role string

	// Club is the user's resolved club: for officers, the club that
	// references them; for students, their verified club if any. Nil when
	// the user has no club scope (admins, unassigned officers, students
	// with no verified membership).
	Club *models.Club

	// Membership is set for students with a verified membership.
	Membership *models.Membership

	// Ambiguous is true when an officer is referenced by more than one
	// club. Club then holds the deterministic winner (lowest ID).
	Ambiguous bool
}

// Resolver computes a user's affiliation from the current database state
// rather than from stale session data.
type Resolver struct {
	users       UserStore
	clubs       ClubStore
	memberships MembershipStore
}

func NewResolver(users UserStore, clubs ClubStore, memberships MembershipStore) *Resolver {
	return &Resolver{users: users, clubs: clubs, memberships: memberships}
}

// Resolve determines the user's role and club affiliation.
//
// Officers resolve to the club referencing them through the matching officer
// field. If several clubs match, the one with the lowest ObjectID wins and
// Ambiguous is set; strict callers can treat that as ErrAmbiguousAffiliation.
// Students resolve to their earliest verified membership's club, if any.
// Admins have no club scope.
func (r *Resolver) Resolve(ctx context.Context, userID primitive.ObjectID) (*Affiliation, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	role := normalize.Role(user.Role)
	aff := &Affiliation{Role: role}

	switch {
	case models.IsOfficerRole(role):
		clubs, err := r.clubs.ListByOfficer(ctx, role, userID)
		if err != nil {
			return nil, err
		}
		if len(clubs) > 0 {
			aff.Club = &clubs[0]
			aff.Ambiguous = len(clubs) > 1
		}

	case role == models.RoleStudent:
		verified, err := r.memberships.ListByUser(ctx, userID, models.MembershipVerified)
		if err != nil {
			return nil, err
		}
		if len(verified) > 0 {
			// ListByUser is newest-first; the earliest application wins.
			m := verified[len(verified)-1]
			aff.Membership = &m
			club, err := r.clubs.GetByID(ctx, m.ClubID)
			if err == nil {
				aff.Club = club
			} else if !errors.Is(err, mongo.ErrNoDocuments) {
				return nil, err
			}
			// A dangling club reference leaves Club nil.
		}
	}

	return aff, nil
}

// ResolveStrict is Resolve with ambiguity promoted to an error. The
// affiliation is still returned so callers can show the winning club.
func (r *Resolver) ResolveStrict(ctx context.Context, userID primitive.ObjectID) (*Affiliation, error) {
	aff, err := r.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if aff.Ambiguous {
		return aff, ErrAmbiguousAffiliation
	}
	return aff, nil
}
