// internal/app/features/clubs/handler.go
package clubs

import (
	uierrors "github.com/dalemusser/ukmhub/internal/app/features/errors"
	clubstore "github.com/dalemusser/ukmhub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/ukmhub/internal/app/store/memberships"
	userstore "github.com/dalemusser/ukmhub/internal/app/store/users"
	"github.com/dalemusser/ukmhub/internal/app/system/auditlog"
	"github.com/dalemusser/ukmhub/internal/app/workflow"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for Clubs: the public directory and
// the admin management screens.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Clubs    *clubstore.Store
	Users    *userstore.Store
	Engine   *workflow.Engine
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	clubs := clubstore.New(db)
	users := userstore.New(db)
	memberships := membershipstore.New(db)
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Clubs:    clubs,
		Users:    users,
		Engine:   workflow.NewEngine(users, clubs, memberships),
	}
}
