// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach
// JSON-Schema validators. On servers that don't support collMod
// validators (e.g. some DocumentDB versions), we log and skip
// gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("organizations", orgsSchema())
	ensure("employee_groups", groupsSchema())
	ensure("employee_group_members", membersSchema())

	// Activity fact collections carry no validators; shapes vary by
	// source system. We still make sure they exist.
	for _, coll := range []string{
		"user_progress", "conversations", "conversation_messages",
		"user_streaks", "user_credits", "user_collections",
		"collection_items", "oauth_states", "audit_events",
	} {
		ensure(coll, nil)
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		// Concurrent startup can lose the create race; that's fine.
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) && cmdErr.HasErrorCodeWithMessage(48, "already exists") {
			return nil
		}
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return err
	}
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, coll string, schema bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: coll},
		{Key: "validator", Value: bson.M{"$jsonSchema": schema}},
		{Key: "validationLevel", Value: "moderate"},
	}
	return db.RunCommand(ctx, cmd).Err()
}

func isUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		// 59 CommandNotFound, 115 CommandNotSupported
		return cmdErr.Code == 59 || cmdErr.Code == 115
	}
	return strings.Contains(err.Error(), "no such command") ||
		strings.Contains(err.Error(), "not supported")
}

/* ------------------------------- schemas ------------------------------- */

func usersSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"full_name", "email", "role"},
		"properties": bson.M{
			"full_name":    bson.M{"bsonType": "string", "minLength": 1},
			"full_name_ci": bson.M{"bsonType": "string"},
			"email":        bson.M{"bsonType": "string", "minLength": 3},
			"email_ci":     bson.M{"bsonType": "string"},
			"role": bson.M{
				"enum": []string{"admin", "member"},
			},
			"membership_status": bson.M{
				"enum": []string{"org_admin", "member"},
			},
			"status": bson.M{
				"enum": []string{"active", "disabled"},
			},
			"organization_id": bson.M{"bsonType": "objectId"},
		},
	}
}

func orgsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"name"},
		"properties": bson.M{
			"name":    bson.M{"bsonType": "string", "minLength": 1},
			"name_ci": bson.M{"bsonType": "string"},
		},
	}
}

func groupsSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"organization_id", "name"},
		"properties": bson.M{
			"organization_id": bson.M{"bsonType": "objectId"},
			"name":            bson.M{"bsonType": "string", "minLength": 1},
			"name_ci":         bson.M{"bsonType": "string"},
			"is_dynamic":      bson.M{"bsonType": "bool"},
			"dynamic_type": bson.M{
				"enum": []string{
					"recent_logins", "no_logins",
					"most_active", "top_learners", "most_talkative",
				},
			},
			"criteria": bson.M{
				"bsonType": "object",
				"properties": bson.M{
					"days":        bson.M{"bsonType": "number", "minimum": 1},
					"period_days": bson.M{"bsonType": "number", "minimum": 1},
					"threshold":   bson.M{"bsonType": "number", "minimum": 0, "maximum": 100},
					"metrics": bson.M{
						"bsonType": "array",
						"items":    bson.M{"bsonType": "string"},
					},
				},
			},
			"seed_key": bson.M{"bsonType": "string"},
		},
	}
}

func membersSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": []string{"group_id", "user_id", "organization_id"},
		"properties": bson.M{
			"group_id":        bson.M{"bsonType": "objectId"},
			"user_id":         bson.M{"bsonType": "objectId"},
			"organization_id": bson.M{"bsonType": "objectId"},
		},
	}
}
