package groupmembers

import (
	"context"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemberRow is one entry in a group's member listing, with the activity
// summary shown alongside the profile.
type MemberRow struct {
	User             models.User `bson:"user" json:"user"`
	CoursesCompleted int64       `bson:"courses_completed" json:"courses_completed"`
	ViewTimeSeconds  int64       `bson:"view_time_seconds" json:"view_time_seconds"`
}

// ListStaticMembers returns a static group's members joined with their
// profiles. Ordered by folded name, then _id for a stable tiebreak.
func ListStaticMembers(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID) ([]MemberRow, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"group_id": groupID}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$match", Value: bson.M{"user.status": "active"}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "user.full_name_ci", Value: 1},
			{Key: "user._id", Value: 1},
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{
			"newRoot": bson.M{"user": "$user"},
		}}},
	}

	cur, err := db.Collection("employee_group_members").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []MemberRow
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return attachActivity(ctx, db, out)
}

// ListByUserIDs returns member rows for an explicit set of user IDs. The
// dynamic-group views use this after the membership has been resolved.
func ListByUserIDs(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID) ([]MemberRow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": userIDs}}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "full_name_ci", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{
			"newRoot": bson.M{"user": "$$ROOT"},
		}}},
	}

	cur, err := db.Collection("users").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []MemberRow
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return attachActivity(ctx, db, out)
}

// attachActivity fills in each row's course activity summary with one
// aggregation over user_progress.
func attachActivity(ctx context.Context, db *mongo.Database, rows []MemberRow) ([]MemberRow, error) {
	if len(rows) == 0 {
		return rows, nil
	}
	ids := make([]primitive.ObjectID, len(rows))
	for i, r := range rows {
		ids[i] = r.User.ID
	}

	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": bson.M{"$in": ids}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$user_id",
			"view_time": bson.M{"$sum": "$view_time_seconds"},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{"$is_completed", 1, 0}}},
		}}},
	}

	cur, err := db.Collection("user_progress").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	type statRow struct {
		ID        primitive.ObjectID `bson:"_id"`
		ViewTime  int64              `bson:"view_time"`
		Completed int64              `bson:"completed"`
	}
	stats := make(map[primitive.ObjectID]statRow)
	for cur.Next(ctx) {
		var row statRow
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		stats[row.ID] = row
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	for i := range rows {
		if s, ok := stats[rows[i].User.ID]; ok {
			rows[i].ViewTimeSeconds = s.ViewTime
			rows[i].CoursesCompleted = s.Completed
		}
	}
	return rows, nil
}
