package membershipstore

import (
	"context"
	"time"

	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("memberships")}
}

// Insert writes a new application, stamping ID and AppliedAt.
// Field validation happens in the workflow layer; the store persists what it
// is given.
func (s *Store) Insert(ctx context.Context, m models.Membership) (models.Membership, error) {
	m.ID = primitive.NewObjectID()
	if m.AppliedAt.IsZero() {
		m.AppliedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// GetByID loads a membership by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Membership, error) {
	var m models.Membership
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Transition atomically moves a membership from fromStatus to toStatus,
// scoped to the given club, and returns the updated document. Returns
// mongo.ErrNoDocuments when no document matches, which covers both a missing
// membership and one that is no longer in fromStatus; the caller
// disambiguates with GetByID.
func (s *Store) Transition(ctx context.Context, clubID, id primitive.ObjectID, fromStatus, toStatus string, verifiedAt *time.Time) (*models.Membership, error) {
	set := bson.M{"status": toStatus}
	if verifiedAt != nil {
		set["verified_at"] = *verifiedAt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Membership
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "club_id": clubID, "status": fromStatus},
		bson.M{"$set": set},
		opts,
	).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByClub returns a club's memberships, newest application first.
// An empty status means all statuses.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID, status string) ([]models.Membership, error) {
	filter := bson.M{"club_id": clubID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Membership
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByUser returns a user's applications across clubs, newest first.
// An empty status means all statuses.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.Membership, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "applied_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Membership
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CountByClub counts a club's memberships in the given status.
func (s *Store) CountByClub(ctx context.Context, clubID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"club_id": clubID, "status": status})
}

// CountByStatus counts memberships in the given status across all clubs.
func (s *Store) CountByStatus(ctx context.Context, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": status})
}
