package agendastore

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
	return &Store{c: db.Collection("agenda")}
}

var (
	errEmptyTitle = errors.New("agenda title is required")
	errZeroDate   = errors.New("agenda date is required")
)

// Insert writes a new agenda item. Status is never stored; it is derived from
// the date at read time.
func (s *Store) Insert(ctx context.Context, item models.AgendaItem) (models.AgendaItem, error) {
	item.ID = primitive.NewObjectID()
	item.Title = normalize.Name(item.Title)
	if item.Title == "" {
		return models.AgendaItem{}, errEmptyTitle
	}
	if item.Date.IsZero() {
		return models.AgendaItem{}, errZeroDate
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, item); err != nil {
		return models.AgendaItem{}, err
	}
	return item, nil
}

// GetByID loads an agenda item. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AgendaItem, error) {
	var item models.AgendaItem
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByClub returns a club's agenda items, soonest date first.
func (s *Store) ListByClub(ctx context.Context, clubID primitive.ObjectID) ([]models.AgendaItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.AgendaItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListUpcoming returns agenda items on or after the given cutoff across all
// clubs, soonest first, up to limit. Used on the public landing page.
func (s *Store) ListUpcoming(ctx context.Context, cutoff time.Time, limit int64) ([]models.AgendaItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"date": bson.M{"$gte": cutoff}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.AgendaItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites an agenda item's editable fields, scoped to the owning club.
func (s *Store) Update(ctx context.Context, clubID, id primitive.ObjectID, title, description string, date time.Time, location string) error {
	title = normalize.Name(title)
	if title == "" {
		return errEmptyTitle
	}
	if date.IsZero() {
		return errZeroDate
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "club_id": clubID},
		bson.M{"$set": bson.M{
			"title":       title,
			"description": description,
			"date":        date,
			"location":    location,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an agenda item, scoped to the owning club.
func (s *Store) Delete(ctx context.Context, clubID, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "club_id": clubID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
