// internal/app/store/progress/progressstore.go
package progressstore

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages course progress records: per (user, course) view-time
// accumulation, completion flag, and last-accessed timestamp. The
// dynamic-group collectors read this collection; the learning surface
// writes it.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_progress")}
}

// Record upserts progress for (user, course): adds view time, sets the
// completion flag once reached, and advances last_accessed.
func (s *Store) Record(ctx context.Context, userID, orgID, courseID primitive.ObjectID, viewTimeSeconds int64, completed bool, at time.Time) error {
	set := bson.M{
		"org_id":        orgID,
		"last_accessed": at.UTC(),
	}
	if completed {
		set["is_completed"] = true
	}
	update := bson.M{
		"$set":         set,
		"$inc":         bson.M{"view_time_seconds": viewTimeSeconds},
		"$setOnInsert": bson.M{"user_id": userID, "course_id": courseID},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID, "course_id": courseID}, update, opts)
	return err
}

// GetByUser returns a user's progress rows, newest access first.
func (s *Store) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.ProgressRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProgressRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountCompletedByUser counts a user's completed courses.
func (s *Store) CountCompletedByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID, "is_completed": true})
}
