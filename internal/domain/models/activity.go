// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity fact documents. The dynamic-group engine only ever reads these,
// scoped to a candidate user set and a time window; product features and
// ingestion paths own the writes.

// ProgressRecord accumulates a user's time and completion state in a course.
type ProgressRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID           primitive.ObjectID `bson:"org_id" json:"org_id"`
	CourseID        primitive.ObjectID `bson:"course_id" json:"course_id"`
	ViewTimeSeconds int64              `bson:"view_time_seconds" json:"view_time_seconds"`
	IsCompleted     bool               `bson:"is_completed" json:"is_completed"`
	LastAccessed    time.Time          `bson:"last_accessed" json:"last_accessed"`
}

// Conversation is one AI-agent chat thread.
type Conversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Message roles within a conversation.
const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ConversationMessage is a single turn inside a conversation.
type ConversationMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	Role           string             `bson:"role" json:"role"` // "user" | "assistant"
	Content        string             `bson:"content,omitempty" json:"content,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// StreakRecord is a per-day snapshot of a user's learning streak.
type StreakRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID         primitive.ObjectID `bson:"org_id" json:"org_id"`
	CurrentStreak int                `bson:"current_streak" json:"current_streak"`
	ActivityDate  time.Time          `bson:"activity_date" json:"activity_date"`
}

// CreditEntry is one row in the credit ledger.
type CreditEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	Amount    float64            `bson:"amount" json:"amount"`
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	AwardedAt time.Time          `bson:"awarded_at" json:"awarded_at"`
}

// Collection is a user-owned set of saved knowledge items.
type Collection struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OrgID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	Title     string             `bson:"title" json:"title"`
	TitleCI   string             `bson:"title_ci" json:"title_ci"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CollectionItem is one saved item inside a collection. OwnerID is
// denormalized from the collection so utilization queries can group by
// owner without a join.
type CollectionItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CollectionID primitive.ObjectID `bson:"collection_id" json:"collection_id"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	RefID        primitive.ObjectID `bson:"ref_id,omitempty" json:"ref_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
