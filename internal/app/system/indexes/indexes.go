// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent
(CreateMany with identical definitions is a no-op on the server). Errors are
aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureClubs(ctx, db); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureMemberships(ctx, db); err != nil {
		problems = append(problems, "memberships: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}
	if err := ensureAgenda(ctx, db); err != nil {
		problems = append(problems, "agenda: "+err.Error())
	}
	if err := ensureDocumentation(ctx, db); err != nil {
		problems = append(problems, "documentation: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}
	if err := ensureOAuthStates(ctx, db); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("role_name"),
		},
	})
	return err
}

func ensureClubs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("clubs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "chair_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("by_chair"),
		},
		{
			Keys:    bson.D{{Key: "secretary_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("by_secretary"),
		},
		{
			Keys:    bson.D{{Key: "supervisor_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("by_supervisor"),
		},
	})
	return err
}

func ensureMemberships(ctx context.Context, db *mongo.Database) error {
	// Intentionally NO unique index on (user_id, club_id): duplicate pending
	// applications are permitted, matching observed behavior. Officer queues
	// surface duplicates for human resolution.
	_, err := db.Collection("memberships").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("club_status"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_status"),
		},
	})
	return err
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	// The unique triple backstops the duplicate pre-check: two racing
	// submissions for the same day can both pass the check, but only one
	// insert wins; the loser surfaces as DuplicateSubmission.
	_, err := db.Collection("attendance").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "club_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_user_club_day"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("club_day"),
		},
	})
	return err
}

func ensureAgenda(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("agenda").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("club_date"),
		},
	})
	return err
}

func ensureDocumentation(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("documentation").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("club_created"),
		},
	})
	return err
}

func ensureOAuthStates(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("oauth_states").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_state"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires"),
		},
	})
	return err
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("audit_events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("by_time"),
		},
		{
			Keys:    bson.D{{Key: "club_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetSparse(true).SetName("club_time"),
		},
	})
	return err
}
