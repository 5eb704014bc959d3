package userstore

import (
	"context"

	"github.com/dalemusser/ukmhub/internal/app/system/auth"
	"github.com/dalemusser/ukmhub/internal/app/system/normalize"
	"github.com/dalemusser/ukmhub/internal/app/system/timeouts"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// For officers it also resolves which club the user serves, so role and club
// changes take effect on the next request without re-login.
type Fetcher struct {
	users *mongo.Collection
	clubs *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users: db.Collection("users"),
		clubs: db.Collection("clubs"),
	}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// disabled, or if any error occurs. This implements auth.UserFetcher.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":       1,
		"full_name": 1,
		"email":     1,
		"role":      1,
		"status":    1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}, proj).Decode(&u); err != nil {
		return nil
	}

	if normalize.Status(u.Status) == "disabled" {
		return nil
	}

	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
		Role:  normalize.Role(u.Role),
	}

	if models.IsOfficerRole(su.Role) {
		// An officer serves the club that references them. When more than one
		// club matches, the lowest _id wins so the outcome is deterministic.
		field := officerField(su.Role)
		var club struct {
			ID   primitive.ObjectID `bson:"_id"`
			Name string             `bson:"name"`
		}
		clubProj := options.FindOne().
			SetProjection(bson.M{"_id": 1, "name": 1}).
			SetSort(bson.D{{Key: "_id", Value: 1}})
		if err := f.clubs.FindOne(ctx, bson.M{field: oid}, clubProj).Decode(&club); err == nil {
			su.ClubID = club.ID.Hex()
			su.ClubName = club.Name
		}
		// No matching club: officer signs in but has no club scope.
	}

	return su
}

func officerField(role string) string {
	switch role {
	case models.RoleChair:
		return "chair_id"
	case models.RoleSecretary:
		return "secretary_id"
	case models.RoleSupervisor:
		return "supervisor_id"
	}
	return ""
}
