// internal/app/store/credits/creditstore.go
package creditstore

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store manages the append-only credit ledger.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_credits")}
}

// Award appends a ledger entry.
func (s *Store) Award(ctx context.Context, entry models.CreditEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.AwardedAt.IsZero() {
		entry.AwardedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

// TotalForUser sums a user's ledger amounts on or after the cutoff.
func (s *Store) TotalForUser(ctx context.Context, userID primitive.ObjectID, cutoff time.Time) (float64, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"user_id":    userID,
			"awarded_at": bson.M{"$gte": cutoff.UTC()},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipe)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
