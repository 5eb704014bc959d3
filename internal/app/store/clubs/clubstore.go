package clubstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("clubs")}
}

var (
	// ErrDuplicateName is returned when a club with the same folded name already exists.
	ErrDuplicateName = errors.New("a club with this name already exists")
	errBadStatus     = errors.New(`status must be "active"|"inactive"`)
	errEmptyName     = errors.New("club name is required")
)

// GetByID loads a club by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Club, error) {
	var club models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&club); err != nil {
		return nil, err
	}
	return &club, nil
}

// List returns all clubs sorted by folded name. If activeOnly is true,
// inactive clubs are excluded.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Club, error) {
	filter := bson.M{}
	if activeOnly {
		filter["status"] = models.ClubActive
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// Create inserts a new club after normalizing & validating fields.
// MemberCount starts at zero regardless of the input value.
func (s *Store) Create(ctx context.Context, club models.Club) (models.Club, error) {
	club.ID = primitive.NewObjectID()
	club.Name = normalize.Name(club.Name)
	club.NameCI = text.Fold(club.Name)
	club.Status = normalize.ClubStatus(club.Status)
	club.MemberCount = 0

	if club.Name == "" {
		return models.Club{}, errEmptyName
	}
	if club.Status != models.ClubActive && club.Status != models.ClubInactive {
		return models.Club{}, errBadStatus
	}

	now := time.Now()
	club.CreatedAt = now
	club.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, club); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Club{}, ErrDuplicateName
		}
		return models.Club{}, err
	}
	return club, nil
}

// Update holds the admin-editable club fields. Officer references are set
// through AssignOfficer so role bookkeeping stays in one place.
type Update struct {
	Name        string
	Description string
	Status      string
	ImageURL    string
}

// Update rewrites a club's editable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.Name)
	if name == "" {
		return errEmptyName
	}
	status := normalize.ClubStatus(upd.Status)
	if status != models.ClubActive && status != models.ClubInactive {
		return errBadStatus
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":        name,
		"name_ci":     text.Fold(name),
		"description": upd.Description,
		"status":      status,
		"image_url":   upd.ImageURL,
		"updated_at":  time.Now(),
	}})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateName
	}
	return err
}

// officerFields maps an officer role to its reference and display-name fields.
func officerFields(role string) (idField, nameField string, ok bool) {
	switch role {
	case models.RoleChair:
		return "chair_id", "chair_name", true
	case models.RoleSecretary:
		return "secretary_id", "secretary_name", true
	case models.RoleSupervisor:
		return "supervisor_id", "supervisor_name", true
	}
	return "", "", false
}

// AssignOfficer sets or clears one officer position on a club. A nil userID
// clears the position.
func (s *Store) AssignOfficer(ctx context.Context, clubID primitive.ObjectID, role string, userID *primitive.ObjectID, userName string) error {
	idField, nameField, ok := officerFields(normalize.Role(role))
	if !ok {
		return errors.New("role is not an officer position")
	}

	var update bson.M
	if userID == nil {
		update = bson.M{
			"$unset": bson.M{idField: "", nameField: ""},
			"$set":   bson.M{"updated_at": time.Now()},
		}
	} else {
		update = bson.M{"$set": bson.M{
			idField:      *userID,
			nameField:    userName,
			"updated_at": time.Now(),
		}}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": clubID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListByOfficer returns the clubs where the given user holds the given
// officer role, sorted by _id so the first result is stable.
func (s *Store) ListByOfficer(ctx context.Context, role string, userID primitive.ObjectID) ([]models.Club, error) {
	idField, _, ok := officerFields(normalize.Role(role))
	if !ok {
		return nil, errors.New("role is not an officer position")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{idField: userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

// IncMemberCount atomically adjusts the cached member count by delta.
// Returns mongo.ErrNoDocuments if the club does not exist.
func (s *Store) IncMemberCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"member_count": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetMemberCount overwrites the cached member count with an authoritative value.
func (s *Store) SetMemberCount(ctx context.Context, id primitive.ObjectID, count int64) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"member_count": count,
		"updated_at":   time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a club by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
