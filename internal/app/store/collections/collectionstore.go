// internal/app/store/collections/collectionstore.go
package collectionstore

import (
	"context"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store manages user-owned collections and their items.
type Store struct {
	c     *mongo.Collection
	items *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("user_collections"),
		items: db.Collection("collection_items"),
	}
}

// Create inserts a collection.
func (s *Store) Create(ctx context.Context, col models.Collection) (models.Collection, error) {
	now := time.Now().UTC()
	col.ID = primitive.NewObjectID()
	col.TitleCI = text.Fold(col.Title)
	col.CreatedAt = now
	col.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, col); err != nil {
		return models.Collection{}, err
	}
	return col, nil
}

// AddItem appends an item to a collection. The owner is denormalized onto
// the item so utilization queries can group by owner without a join.
func (s *Store) AddItem(ctx context.Context, item models.CollectionItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if _, err := s.items.InsertOne(ctx, item); err != nil {
		return err
	}
	_, err := s.c.UpdateByID(ctx, item.CollectionID, bson.M{
		"$set": bson.M{"updated_at": item.CreatedAt},
	})
	return err
}

// CountItemsByOwner counts all items across a user's collections.
func (s *Store) CountItemsByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return s.items.CountDocuments(ctx, bson.M{"owner_id": ownerID})
}

// GetByOwner returns a user's collections sorted by folded title.
func (s *Store) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Collection, error) {
	cur, err := s.c.Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Collection
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
