package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Users         int64
	Groups        int64
	DynamicGroups int64
	Conversations int64
	Collections   int64
}

// FetchDashboardCounts returns the high-level counts for one organization.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database, orgID primitive.ObjectID) Counts {
	var out Counts

	// users
	if n, err := db.Collection("users").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"status":          "active",
	}); err == nil {
		out.Users = n
	}

	// groups
	if n, err := db.Collection("employee_groups").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
	}); err == nil {
		out.Groups = n
	}

	// dynamic groups
	if n, err := db.Collection("employee_groups").CountDocuments(ctx, bson.M{
		"organization_id": orgID,
		"is_dynamic":      true,
	}); err == nil {
		out.DynamicGroups = n
	}

	// conversations
	if n, err := db.Collection("conversations").CountDocuments(ctx, bson.M{
		"org_id": orgID,
	}); err == nil {
		out.Conversations = n
	}

	// collections
	if n, err := db.Collection("user_collections").CountDocuments(ctx, bson.M{
		"org_id": orgID,
	}); err == nil {
		out.Collections = n
	}

	return out
}
