// Package activitymetrics collects raw per-user activity numbers from the
// fact collections. Each metric has one collector; Collect fans the
// requested collectors out concurrently and tolerates individual failures.
package activitymetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collector produces one raw metric value per user. Users with no
// matching activity are simply absent from the map.
type Collector func(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error)

// collectors maps metric names to their implementations.
var collectors = map[string]Collector{
	models.MetricStreaks:               CollectStreaks,
	models.MetricTimeInCourse:          CollectViewTime,
	models.MetricTimeSpent:             CollectViewTime,
	models.MetricCoursesCompleted:      CollectCoursesCompleted,
	models.MetricCollectionUtilization: CollectCollectionUtilization,
	models.MetricCreditsEarned:         CollectCreditsEarned,
	models.MetricConversationCount:     CollectConversationCount,
	models.MetricMessageCount:          CollectMessageCount,
}

// Collect runs the named collectors concurrently and returns raw values
// keyed by metric name. A collector that errors contributes an empty map
// and a warning; the other metrics still count. Unknown metric names are
// skipped with a warning, never a panic.
func Collect(
	ctx context.Context,
	db *mongo.Database,
	logger *zap.Logger,
	metrics []string,
	userIDs []primitive.ObjectID,
	cutoff time.Time,
) map[string]map[primitive.ObjectID]float64 {
	out := make(map[string]map[primitive.ObjectID]float64, len(metrics))
	results := make([]map[primitive.ObjectID]float64, len(metrics))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range metrics {
		fn, ok := collectors[name]
		if !ok {
			logger.Warn("skipping unknown activity metric", zap.String("metric", name))
			continue
		}
		i, name, fn := i, name, fn
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, timeouts.Medium())
			defer cancel()

			vals, err := fn(cctx, db, userIDs, cutoff)
			if err != nil {
				logger.Warn("activity metric collection failed",
					zap.String("metric", name),
					zap.Error(err))
				vals = map[primitive.ObjectID]float64{}
			}
			results[i] = vals
			return nil
		})
	}
	// Collectors swallow their own errors, so Wait cannot fail.
	_ = g.Wait()

	for i, name := range metrics {
		if results[i] == nil {
			continue
		}
		out[name] = results[i]
	}
	return out
}

// CollectStreaks returns each user's best streak length recorded in the
// window: max(current_streak) over snapshots with activity_date >= cutoff.
func CollectStreaks(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":       bson.M{"$in": userIDs},
			"activity_date": bson.M{"$gte": cutoff.UTC()},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$max": "$current_streak"},
		}},
	}
	return runValuePipeline(ctx, db.Collection("user_streaks"), pipeline)
}

// CollectViewTime returns total course view time in seconds for activity
// touched in the window: sum(view_time_seconds) over progress rows with
// last_accessed >= cutoff.
func CollectViewTime(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":       bson.M{"$in": userIDs},
			"last_accessed": bson.M{"$gte": cutoff.UTC()},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$sum": "$view_time_seconds"},
		}},
	}
	return runValuePipeline(ctx, db.Collection("user_progress"), pipeline)
}

// CollectCoursesCompleted counts completed courses whose progress was last
// touched in the window.
func CollectCoursesCompleted(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":       bson.M{"$in": userIDs},
			"is_completed":  true,
			"last_accessed": bson.M{"$gte": cutoff.UTC()},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$sum": 1},
		}},
	}
	return runValuePipeline(ctx, db.Collection("user_progress"), pipeline)
}

// CollectCollectionUtilization counts items across a user's collections.
// All-time on purpose: the cutoff is ignored so the metric reflects the
// size of what a user has curated, not recent curation churn.
func CollectCollectionUtilization(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, _ time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"owner_id": bson.M{"$in": userIDs},
		}},
		{"$group": bson.M{
			"_id":   "$owner_id",
			"value": bson.M{"$sum": 1},
		}},
	}
	return runValuePipeline(ctx, db.Collection("collection_items"), pipeline)
}

// CollectCreditsEarned sums ledger amounts awarded in the window.
func CollectCreditsEarned(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":    bson.M{"$in": userIDs},
			"awarded_at": bson.M{"$gte": cutoff.UTC()},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$sum": "$amount"},
		}},
	}
	return runValuePipeline(ctx, db.Collection("user_credits"), pipeline)
}

// CollectConversationCount counts conversations started in the window.
func CollectConversationCount(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":    bson.M{"$in": userIDs},
			"created_at": bson.M{"$gte": cutoff.UTC()},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$sum": 1},
		}},
	}
	return runValuePipeline(ctx, db.Collection("conversations"), pipeline)
}

// CollectMessageCount counts a user's own messages sent in the window,
// joined through conversations also started in the window. Assistant
// replies do not count toward talkativeness.
func CollectMessageCount(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID, cutoff time.Time) (map[primitive.ObjectID]float64, error) {
	cut := cutoff.UTC()
	pipeline := []bson.M{
		{"$match": bson.M{
			"user_id":    bson.M{"$in": userIDs},
			"created_at": bson.M{"$gte": cut},
		}},
		{"$lookup": bson.M{
			"from":         "conversation_messages",
			"localField":   "_id",
			"foreignField": "conversation_id",
			"as":           "msg",
		}},
		{"$unwind": "$msg"},
		{"$match": bson.M{
			"msg.role":       models.MessageRoleUser,
			"msg.created_at": bson.M{"$gte": cut},
		}},
		{"$group": bson.M{
			"_id":   "$user_id",
			"value": bson.M{"$sum": 1},
		}},
	}
	return runValuePipeline(ctx, db.Collection("conversations"), pipeline)
}

// runValuePipeline executes a {_id, value} aggregation and folds it into
// a per-user map.
func runValuePipeline(ctx context.Context, c *mongo.Collection, pipeline []bson.M) (map[primitive.ObjectID]float64, error) {
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", c.Name(), err)
	}
	defer cur.Close(ctx)

	out := make(map[primitive.ObjectID]float64)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Value float64            `bson:"value"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", c.Name(), err)
		}
		out[row.ID] = row.Value
	}
	return out, cur.Err()
}
