// Package dynamicmembers computes the current membership of dynamic
// employee groups. Membership is derived fresh on every call; nothing is
// persisted except the group's last_computed_at marker.
package dynamicmembers

import (
	"context"
	"errors"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/store/queries/activitymetrics"
	"github.com/lumenlearn/lumenhub/internal/app/system/scoring"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ErrStaticGroup is returned when Resolve is asked about a non-dynamic group.
var ErrStaticGroup = errors.New("group is not dynamic")

// Resolve returns the user IDs currently matching a dynamic group's
// criteria. Unknown dynamic type tags resolve to an empty membership with
// a warning rather than an error, so a bad tag in the database cannot
// break group listings. Malformed criteria are an error: they indicate a
// write that bypassed validation.
func Resolve(ctx context.Context, db *mongo.Database, logger *zap.Logger, group models.EmployeeGroup) ([]primitive.ObjectID, error) {
	if !group.IsDynamic {
		return nil, ErrStaticGroup
	}

	if err := models.ValidateCriteria(group.DynamicType, group.Criteria); err != nil {
		if errors.Is(err, models.ErrUnknownDynamicType) {
			logger.Warn("dynamic group has unknown type tag; resolving to empty",
				zap.String("group_id", group.ID.Hex()),
				zap.String("dynamic_type", group.DynamicType))
			return []primitive.ObjectID{}, nil
		}
		return nil, err
	}

	candidates, err := orgUserIDs(ctx, db, group.OrganizationID)
	if err != nil {
		return nil, err
	}

	var members []primitive.ObjectID
	now := time.Now().UTC()

	switch group.DynamicType {
	case models.DynamicRecentLogins:
		cutoff := now.AddDate(0, 0, -group.Criteria.Days)
		members, err = activeUsers(ctx, db, candidates, cutoff)

	case models.DynamicNoLogins:
		cutoff := now.AddDate(0, 0, -group.Criteria.Days)
		var active []primitive.ObjectID
		active, err = activeUsers(ctx, db, candidates, cutoff)
		if err == nil {
			members = subtract(candidates, active)
		}

	case models.DynamicMostActive, models.DynamicTopLearners, models.DynamicMostTalkative:
		cutoff := now.AddDate(0, 0, -group.Criteria.PeriodDays)
		raw := activitymetrics.Collect(ctx, db, logger, group.Criteria.Metrics, candidates, cutoff)

		perMetric := make([]map[primitive.ObjectID]float64, 0, len(group.Criteria.Metrics))
		for _, m := range group.Criteria.Metrics {
			perMetric = append(perMetric, scoring.Normalize(raw[m]))
		}
		composite := scoring.Composite(candidates, perMetric)
		members = scoring.PassThreshold(candidates, composite, group.Criteria.Threshold)
	}
	if err != nil {
		return nil, err
	}

	touchLastComputed(ctx, db, logger, group.ID, now)
	return members, nil
}

// orgUserIDs returns the candidate universe: active users belonging to
// the organization.
func orgUserIDs(ctx context.Context, db *mongo.Database, orgID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Collection("users").Find(ctx, bson.M{
		"organization_id": orgID,
		"status":          "active",
	}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// activeUsers returns the subset of candidates with any recorded activity
// on or after the cutoff. Activity is the union of course access,
// conversation updates, and streak snapshots.
func activeUsers(ctx context.Context, db *mongo.Database, candidates []primitive.ObjectID, cutoff time.Time) ([]primitive.ObjectID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	cut := cutoff.UTC()

	sources := []struct {
		collection string
		timeField  string
	}{
		{"user_progress", "last_accessed"},
		{"conversations", "updated_at"},
		{"user_streaks", "activity_date"},
	}

	seen := make(map[primitive.ObjectID]struct{})
	for _, src := range sources {
		vals, err := db.Collection(src.collection).Distinct(ctx, "user_id", bson.M{
			"user_id":     bson.M{"$in": candidates},
			src.timeField: bson.M{"$gte": cut},
		})
		if err != nil {
			return nil, err
		}
		for _, v := range vals {
			if id, ok := v.(primitive.ObjectID); ok {
				seen[id] = struct{}{}
			}
		}
	}

	// Preserve candidate order for deterministic output.
	out := make([]primitive.ObjectID, 0, len(seen))
	for _, id := range candidates {
		if _, ok := seen[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// subtract returns the candidates not present in remove, in candidate order.
func subtract(candidates, remove []primitive.ObjectID) []primitive.ObjectID {
	drop := make(map[primitive.ObjectID]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}
	out := make([]primitive.ObjectID, 0, len(candidates))
	for _, id := range candidates {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// touchLastComputed records when the group was last resolved. Failures
// are logged and swallowed: the marker is informational and must never
// turn a successful computation into an error.
func touchLastComputed(ctx context.Context, db *mongo.Database, logger *zap.Logger, groupID primitive.ObjectID, at time.Time) {
	_, err := db.Collection("employee_groups").UpdateByID(ctx, groupID, bson.M{
		"$set": bson.M{"last_computed_at": at},
	})
	if err != nil {
		logger.Warn("failed to touch last_computed_at",
			zap.String("group_id", groupID.Hex()),
			zap.Error(err))
	}
}
