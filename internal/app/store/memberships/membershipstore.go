// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages explicit membership rows for static groups. Dynamic groups
// never touch this collection: their membership is recomputed on read.
type Store struct {
	c      *mongo.Collection
	users  *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("employee_group_members"),
		users:  db.Collection("users"),
		groups: db.Collection("employee_groups"),
	}
}

var (
	ErrDuplicateMembership = errors.New("user is already a member of this group")
	ErrDynamicGroup        = errors.New("membership rows cannot be written for a dynamic group")
	errOrgMismatch         = errors.New("user and group belong to different organizations")
	errMissingOrgID        = errors.New("user missing organization_id")
)

// Add creates one membership after enforcing the org invariant and the
// static-group rule.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID) error {
	var g models.EmployeeGroup
	if err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		return err
	}
	if g.IsDynamic {
		return ErrDynamicGroup
	}

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		return err
	}
	if u.OrganizationID == nil {
		return errMissingOrgID
	}
	if g.OrganizationID != *u.OrganizationID {
		return errOrgMismatch
	}

	doc := bson.M{
		"group_id":   groupID,
		"user_id":    userID,
		"org_id":     g.OrganizationID,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership row for (groupID, userID).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	return err
}

// ReplaceAll swaps a static group's entire membership for the given user
// set: delete-then-insert rather than diff-and-patch. Group sizes are small
// and full replacement sidesteps partial-failure bookkeeping. Duplicate
// user IDs in the input are collapsed.
func (s *Store) ReplaceAll(ctx context.Context, groupID primitive.ObjectID, userIDs []primitive.ObjectID) error {
	var g models.EmployeeGroup
	if err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&g); err != nil {
		return err
	}
	if g.IsDynamic {
		return ErrDynamicGroup
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID}); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	seen := make(map[primitive.ObjectID]struct{}, len(userIDs))
	docs := make([]interface{}, 0, len(userIDs))
	for _, uid := range userIDs {
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		docs = append(docs, bson.M{
			"group_id":   groupID,
			"user_id":    uid,
			"org_id":     g.OrganizationID,
			"created_at": now,
		})
	}

	// ordered:false keeps inserting past any duplicate-key conflicts with
	// concurrent writers; the unique index has the final word.
	_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if bulkErr, ok := err.(mongo.BulkWriteException); ok {
			for _, we := range bulkErr.WriteErrors {
				if we.Code != 11000 {
					return err
				}
			}
			return nil
		}
		return err
	}
	return nil
}

// ListUserIDs returns the member user IDs for a static group.
func (s *Store) ListUserIDs(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.GroupMembership
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]primitive.ObjectID, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.UserID)
	}
	return out, nil
}

// CountByGroup returns the number of membership rows for a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// DeleteByGroup removes all memberships for a group.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrg removes all memberships for an organization.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"org_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
