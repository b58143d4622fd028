// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/system/paging"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateGroupName = errors.New("a group with this name already exists in the organization")
	ErrNotDynamic         = errors.New("group is not dynamic")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("employee_groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EmployeeGroup, error) {
	var g models.EmployeeGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.EmployeeGroup{}, err
	}
	return g, nil
}

// GetForOrg returns all groups in an organization, sorted by folded name.
func (s *Store) GetForOrg(ctx context.Context, orgID primitive.ObjectID) ([]models.EmployeeGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EmployeeGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForOrgPage returns one keyset page of an organization's groups,
// ordered by folded name. It fetches one row beyond the page size so the
// caller can detect a following page with paging.TrimPage.
func (s *Store) GetForOrgPage(ctx context.Context, orgID primitive.ObjectID, cfg paging.KeysetConfig) ([]models.EmployeeGroup, error) {
	filter := bson.M{"organization_id": orgID}
	if window := cfg.KeysetWindow("name_ci"); window != nil {
		for k, v := range window {
			filter[k] = v
		}
	}

	opts := options.Find()
	cfg.ApplyToFind(opts, "name_ci")

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EmployeeGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a group. For dynamic groups the criteria payload is
// validated against the dynamic type; for static groups any dynamic fields
// are cleared so the is_dynamic invariant cannot be violated by a sloppy
// caller.
func (s *Store) Create(ctx context.Context, g models.EmployeeGroup) (models.EmployeeGroup, error) {
	if g.IsDynamic {
		if err := models.ValidateCriteria(g.DynamicType, g.Criteria); err != nil {
			return models.EmployeeGroup{}, err
		}
	} else {
		g.DynamicType = ""
		g.Criteria = nil
		g.LastComputedAt = nil
	}

	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.EmployeeGroup{}, ErrDuplicateGroupName
		}
		return models.EmployeeGroup{}, err
	}
	return g, nil
}

// UpdateInfo renames a group and/or replaces its description. The name is
// only changed when non-blank; the description can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc string) error {
	set := bson.M{
		"description": desc,
		"updated_at":  time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateGroupName
	}
	return err
}

// UpdateCriteria replaces a dynamic group's criteria payload. The group
// must already be dynamic; the payload is validated against the group's
// stored dynamic type before the write.
func (s *Store) UpdateCriteria(ctx context.Context, id primitive.ObjectID, c *models.DynamicCriteria) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !g.IsDynamic {
		return ErrNotDynamic
	}
	if err := models.ValidateCriteria(g.DynamicType, c); err != nil {
		return err
	}

	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"criteria":   c,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// TouchLastComputed records when dynamic membership was last resolved.
// Callers treat a failure here as log-only: the computed membership is
// still valid.
func (s *Store) TouchLastComputed(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_computed_at": at.UTC()}})
	return err
}

// FindSeeded returns the seeded group for (org, seedKey) if one exists.
func (s *Store) FindSeeded(ctx context.Context, orgID primitive.ObjectID, seedKey string) (models.EmployeeGroup, error) {
	var g models.EmployeeGroup
	err := s.c.FindOne(ctx, bson.M{"organization_id": orgID, "seed_key": seedKey}).Decode(&g)
	if err != nil {
		return models.EmployeeGroup{}, err
	}
	return g, nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrg removes all groups belonging to an organization.
func (s *Store) DeleteByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOrg returns the number of groups in an organization.
func (s *Store) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID})
}

// CountDynamicByOrg returns the number of dynamic groups in an organization.
func (s *Store) CountDynamicByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization_id": orgID, "is_dynamic": true})
}
