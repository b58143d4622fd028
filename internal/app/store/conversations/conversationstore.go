// internal/app/store/conversations/conversationstore.go
package conversationstore

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages AI-agent chat threads and their messages.
type Store struct {
	c        *mongo.Collection
	messages *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("conversations"),
		messages: db.Collection("conversation_messages"),
	}
}

// Create starts a conversation.
func (s *Store) Create(ctx context.Context, conv models.Conversation) (models.Conversation, error) {
	now := time.Now().UTC()
	conv.ID = primitive.NewObjectID()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = conv.CreatedAt
	if _, err := s.c.InsertOne(ctx, conv); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// AddMessage appends a message and advances the conversation's updated_at.
func (s *Store) AddMessage(ctx context.Context, msg models.ConversationMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return err
	}
	_, err := s.c.UpdateByID(ctx, msg.ConversationID, bson.M{
		"$set": bson.M{"updated_at": msg.CreatedAt},
	})
	return err
}

// GetByUser returns a user's conversations, most recently updated first.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Conversation, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMessages returns a conversation's messages in chronological order.
func (s *Store) GetMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.ConversationMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ConversationMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByOrgSince counts an organization's conversations created on or
// after the cutoff. Used by the dashboard.
func (s *Store) CountByOrgSince(ctx context.Context, orgID primitive.ObjectID, cutoff time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"org_id":     orgID,
		"created_at": bson.M{"$gte": cutoff.UTC()},
	})
}
