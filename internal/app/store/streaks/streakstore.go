// internal/app/store/streaks/streakstore.go
package streakstore

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages per-day streak snapshots. One document per (user, day).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_streaks")}
}

// Record upserts the streak snapshot for a user's activity day.
func (s *Store) Record(ctx context.Context, userID, orgID primitive.ObjectID, currentStreak int, day time.Time) error {
	day = day.UTC().Truncate(24 * time.Hour)
	update := bson.M{
		"$set": bson.M{
			"org_id":         orgID,
			"current_streak": currentStreak,
		},
		"$setOnInsert": bson.M{
			"user_id":       userID,
			"activity_date": day,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID, "activity_date": day}, update, opts)
	return err
}

// Latest returns a user's most recent streak snapshot, or nil if none.
func (s *Store) Latest(ctx context.Context, userID primitive.ObjectID) (*models.StreakRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "activity_date", Value: -1}})
	var rec models.StreakRecord
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
