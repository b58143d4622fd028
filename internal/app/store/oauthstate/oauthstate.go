// internal/app/store/oauthstate/oauthstate.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidState covers unknown, already-used, and expired states alike.
var ErrInvalidState = errors.New("invalid or expired oauth state")

// Store persists one-time OAuth state nonces so the callback can verify
// the flow started here. States are single-use: Consume deletes on read.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("oauth_states")}
}

type stateDoc struct {
	State     string    `bson:"state"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// Save records a state nonce with its expiry.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	_, err := s.c.InsertOne(ctx, stateDoc{
		State:     state,
		ReturnURL: returnURL,
		ExpiresAt: expiresAt.UTC(),
	})
	return err
}

// CleanupExpired removes states whose expiry has passed and returns how
// many were deleted. Called by the background cleanup worker.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Consume validates and deletes a state nonce, returning its return URL.
func (s *Store) Consume(ctx context.Context, state string) (string, error) {
	var doc stateDoc
	err := s.c.FindOneAndDelete(ctx, bson.M{"state": state}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrInvalidState
		}
		return "", err
	}
	if time.Now().UTC().After(doc.ExpiresAt) {
		return "", ErrInvalidState
	}
	return doc.ReturnURL, nil
}
