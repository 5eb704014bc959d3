// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dalemusser/ukmhub/internal/app/store/audit"
	"github.com/dalemusser/ukmhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger records security- and workflow-relevant events to both zap and the
// audit_events collection. A nil *Logger is safe to call; every method is a
// no-op, which keeps handler tests free of audit plumbing.
type Logger struct {
	store *audit.Store
	log   *zap.Logger
}

func New(store *audit.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, log: zapLog}
}

func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *Logger) record(ctx context.Context, r *http.Request, ev models.AuditEvent) {
	if l == nil {
		return
	}
	if r != nil {
		ev.IP = getClientIP(r)
	}

	if l.log != nil {
		fields := []zap.Field{
			zap.String("action", ev.Action),
			zap.String("ip", ev.IP),
		}
		if ev.ActorID != nil {
			fields = append(fields, zap.String("actor_id", ev.ActorID.Hex()))
		}
		if ev.TargetID != nil {
			fields = append(fields, zap.String("target_id", ev.TargetID.Hex()))
		}
		if ev.Details != "" {
			fields = append(fields, zap.String("details", ev.Details))
		}
		l.log.Info("audit", fields...)
	}

	if l.store != nil {
		if err := l.store.Insert(ctx, ev); err != nil && l.log != nil {
			// Audit persistence failure must not fail the user's request.
			l.log.Warn("audit event insert failed", zap.Error(err), zap.String("action", ev.Action))
		}
	}
}

// LoginSuccess records a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, role, authMethod string) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditLoginSuccess,
		ActorID:   &userID,
		ActorRole: role,
		Details:   authMethod,
	})
}

// LoginFailed records a failed login attempt for the given email.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.record(ctx, r, models.AuditEvent{
		Action:  models.AuditLoginFailed,
		Details: email + ": " + reason,
	})
}

// Logout records a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex string) {
	ev := models.AuditEvent{Action: models.AuditLogout}
	if oid, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		ev.ActorID = &oid
	}
	l.record(ctx, r, ev)
}

// ApplicationSubmitted records a student's club application.
func (l *Logger) ApplicationSubmitted(ctx context.Context, r *http.Request, userID, membershipID, clubID primitive.ObjectID) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditApplicationApply,
		ActorID:   &userID,
		ActorRole: models.RoleStudent,
		TargetID:  &membershipID,
		ClubID:    &clubID,
	})
}

// ApplicationVerified records an officer verifying a pending application.
func (l *Logger) ApplicationVerified(ctx context.Context, r *http.Request, actorID, membershipID, clubID primitive.ObjectID, actorRole string) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditApplicationVerify,
		ActorID:   &actorID,
		ActorRole: actorRole,
		TargetID:  &membershipID,
		ClubID:    &clubID,
	})
}

// ApplicationRejected records an officer rejecting a pending application.
func (l *Logger) ApplicationRejected(ctx context.Context, r *http.Request, actorID, membershipID, clubID primitive.ObjectID, actorRole string) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditApplicationReject,
		ActorID:   &actorID,
		ActorRole: actorRole,
		TargetID:  &membershipID,
		ClubID:    &clubID,
	})
}

// ClubCreated records an admin creating a club.
func (l *Logger) ClubCreated(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, name string) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditClubCreated,
		ActorID:   &actorID,
		ActorRole: models.RoleAdmin,
		ClubID:    &clubID,
		Details:   name,
	})
}

// ClubUpdated records an admin editing a club.
func (l *Logger) ClubUpdated(ctx context.Context, r *http.Request, actorID, clubID primitive.ObjectID, fieldsChanged string) {
	l.record(ctx, r, models.AuditEvent{
		Action:    models.AuditClubUpdated,
		ActorID:   &actorID,
		ActorRole: models.RoleAdmin,
		ClubID:    &clubID,
		Details:   fieldsChanged,
	})
}
