// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureOrganizations(ctx, db); err != nil {
		problems = append(problems, "organizations: "+err.Error())
	}
	if err := ensureEmployeeGroups(ctx, db); err != nil {
		problems = append(problems, "employee_groups: "+err.Error())
	}
	if err := ensureGroupMembers(ctx, db); err != nil {
		problems = append(problems, "employee_group_members: "+err.Error())
	}
	if err := ensureActivity(ctx, db); err != nil {
		problems = append(problems, "activity: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// isOptionsConflictErr reports whether an index with the same keys already
// exists under a different name or with different options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// Same keys under another name or options: drop by desired
				// name if present, then retry once.
				if name != "" {
					_, _ = coll.Indexes().DropOne(ctx, name)
				}
				if _, err2 := coll.Indexes().CreateOne(ctx, m); err2 == nil {
					continue
				}
				zap.L().Warn("index ensure failed after conflict",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(err))
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}

		zap.L().Debug("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Login identity: one account per folded email.
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_emailci"),
		},
		// Candidate-universe scans and org-scoped member listings.
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_org_status_nameci_id"),
		},
	})
}

func ensureOrganizations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("organizations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_orgs_nameci"),
		},
	})
}

func ensureEmployeeGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("employee_groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Group names are unique per org, folded.
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "name_ci", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_groups_org_nameci"),
		},
		// Seeder idempotency lookups.
		{
			Keys: bson.D{
				{Key: "organization_id", Value: 1},
				{Key: "seed_key", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_org_seedkey"),
		},
	})
}

func ensureGroupMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("employee_group_members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one membership row per (group, user).
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_members_group_user"),
		},
		{
			Keys:    bson.D{{Key: "org_id", Value: 1}},
			Options: options.Index().SetName("idx_members_org"),
		},
	})
}

// ensureActivity covers the fact collections the dynamic-group collectors
// scan: each gets a (user, time) compound index matching its window filter.
func ensureActivity(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		collection string
		keys       bson.D
		name       string
	}{
		{"user_progress", bson.D{{Key: "user_id", Value: 1}, {Key: "last_accessed", Value: -1}}, "idx_progress_user_accessed"},
		{"user_progress", bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}, "idx_progress_user_course"},
		{"conversations", bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, "idx_convs_user_created"},
		{"conversations", bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}, "idx_convs_user_updated"},
		{"conversation_messages", bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}, "idx_msgs_conv_created"},
		{"user_streaks", bson.D{{Key: "user_id", Value: 1}, {Key: "activity_date", Value: -1}}, "idx_streaks_user_date"},
		{"user_credits", bson.D{{Key: "user_id", Value: 1}, {Key: "awarded_at", Value: -1}}, "idx_credits_user_awarded"},
		{"collection_items", bson.D{{Key: "owner_id", Value: 1}}, "idx_items_owner"},
		{"user_collections", bson.D{{Key: "owner_id", Value: 1}, {Key: "title_ci", Value: 1}}, "idx_collections_owner_titleci"},
	}

	for _, s := range sets {
		err := ensureIndexSet(ctx, db.Collection(s.collection), []mongo.IndexModel{
			{Keys: s.keys, Options: options.Index().SetName(s.name)},
		})
		if err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
