package documentationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("documentation")}
}

var errEmptyTitle = errors.New("documentation title is required")

// Insert writes one documentation entry, stamping ID and CreatedAt.
func (s *Store) Insert(ctx context.Context, doc models.Documentation) (models.Documentation, error) {
	doc.ID = primitive.NewObjectID()
	doc.Title = normalize.Name(doc.Title)
	if doc.Title == "" {
		return models.Documentation{}, errEmptyTitle
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Documentation{}, err
	}
	return doc, nil
}

// GetByID loads one entry. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Documentation, error) {
	var doc models.Documentation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByClub returns a club's documentation, newest first.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.Documentation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.Documentation
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes one entry, scoped to the owning club. The caller is
// responsible for removing the stored file.
func (s *Store) Delete(ctx context.Context, clubID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "club_id": clubID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
