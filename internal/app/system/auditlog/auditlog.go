// internal/app/system/auditlog/auditlog.go
package auditlog

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Event is one audit record. Admin actions carry the target they acted
// on; auth events usually have no target.
type Event struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	ActorID   primitive.ObjectID  `bson:"actor_id,omitempty"`
	ActorName string              `bson:"actor_name,omitempty"`
	OrgID     *primitive.ObjectID `bson:"organization_id,omitempty"`
	Action    string              `bson:"action"`
	TargetID  *primitive.ObjectID `bson:"target_id,omitempty"`
	Detail    string              `bson:"detail,omitempty"`
	At        time.Time           `bson:"at"`
}

// Logger records audit events to the audit_events collection and to the
// structured log. Recording is best-effort: a failed write is logged but
// never fails the request that triggered it.
type Logger struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Logger {
	return &Logger{c: db.Collection("audit_events"), log: logger}
}

// Admin records an administrative action against a target resource.
func (l *Logger) Admin(ctx context.Context, actor *auth.SessionUser, action string, target primitive.ObjectID, detail string) {
	ev := Event{Action: action, Detail: detail, At: time.Now().UTC()}
	if !target.IsZero() {
		ev.TargetID = &target
	}
	l.record(ctx, actor, ev)
}

// Auth records a sign-in or sign-out event.
func (l *Logger) Auth(ctx context.Context, actor *auth.SessionUser, action, detail string) {
	l.record(ctx, actor, Event{Action: action, Detail: detail, At: time.Now().UTC()})
}

func (l *Logger) record(ctx context.Context, actor *auth.SessionUser, ev Event) {
	if actor != nil {
		if id, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
			ev.ActorID = id
		}
		ev.ActorName = actor.Name
		if orgID, err := primitive.ObjectIDFromHex(actor.OrganizationID); err == nil {
			ev.OrgID = &orgID
		}
	}

	fields := []zap.Field{
		zap.String("action", ev.Action),
		zap.String("actor", ev.ActorName),
	}
	if ev.TargetID != nil {
		fields = append(fields, zap.String("target_id", ev.TargetID.Hex()))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	l.log.Info("audit", fields...)

	if _, err := l.c.InsertOne(ctx, ev); err != nil {
		l.log.Warn("audit event write failed",
			zap.String("action", ev.Action), zap.Error(err))
	}
}
