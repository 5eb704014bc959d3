// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/indexes"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, err
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and seeds the configured superadmin.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	if appCfg.SuperAdminEmail != "" {
		if err := seedSuperAdmin(ctx, deps.MongoDatabase, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// seedSuperAdmin promotes an existing account to admin, or creates a new
// admin account with no password (first sign-in goes through Google).
func seedSuperAdmin(ctx context.Context, db *mongo.Database, email string, logger *zap.Logger) error {
	users := userstore.New(db)

	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		if user.Role == models.RoleAdmin {
			return nil
		}
		logger.Info("promoting superadmin", zap.String("email", user.Email))
		return users.SetRole(ctx, user.ID, models.RoleAdmin)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	logger.Info("creating superadmin account", zap.String("email", email))
	_, err = users.Create(ctx, models.User{
		FullName:   "Site Admin",
		Email:      email,
		AuthMethod: "google",
		Role:       models.RoleAdmin,
		Status:     "active",
	})
	return err
}
