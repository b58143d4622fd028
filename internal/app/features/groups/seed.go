// internal/app/features/groups/seed.go
package groups

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	"github.com/lumenlearn/lumenhub/internal/app/policy/grouppolicy"
	groupstore "github.com/lumenlearn/lumenhub/internal/app/store/groups"
	"github.com/lumenlearn/lumenhub/internal/app/system/auditlog"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"github.com/lumenlearn/lumenhub/internal/app/system/authz"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// defaultDynamicGroups are the five starter groups every organization gets.
// Seeding is idempotent per org: each group carries its dynamic type as a
// seed key, and an existing key is skipped, never overwritten — admins may
// have tuned the criteria since.
var defaultDynamicGroups = []models.EmployeeGroup{
	{
		Name:        "Recently Active",
		Description: "Employees who logged activity in the last 7 days",
		DynamicType: models.DynamicRecentLogins,
		Criteria:    &models.DynamicCriteria{Days: 7},
	},
	{
		Name:        "Needs Re-engagement",
		Description: "Employees with no activity in the last 30 days",
		DynamicType: models.DynamicNoLogins,
		Criteria:    &models.DynamicCriteria{Days: 30},
	},
	{
		Name:        "Most Active",
		Description: "Employees scoring in the upper half on overall engagement",
		DynamicType: models.DynamicMostActive,
		Criteria: &models.DynamicCriteria{
			PeriodDays: 30,
			Threshold:  50,
			Metrics: []string{
				models.MetricStreaks,
				models.MetricTimeInCourse,
				models.MetricCoursesCompleted,
				models.MetricCollectionUtilization,
			},
		},
	},
	{
		Name:        "Top Learners",
		Description: "Employees scoring in the upper half on learning outcomes",
		DynamicType: models.DynamicTopLearners,
		Criteria: &models.DynamicCriteria{
			PeriodDays: 30,
			Threshold:  50,
			Metrics: []string{
				models.MetricTimeSpent,
				models.MetricCoursesCompleted,
				models.MetricCreditsEarned,
			},
		},
	},
	{
		Name:        "Most Talkative",
		Description: "Employees scoring in the upper half on assistant usage",
		DynamicType: models.DynamicMostTalkative,
		Criteria: &models.DynamicCriteria{
			PeriodDays: 30,
			Threshold:  50,
			Metrics: []string{
				models.MetricConversationCount,
				models.MetricMessageCount,
			},
		},
	},
}

// SeedForOrg creates any of the default dynamic groups the organization is
// missing. Returns the names of the groups it created.
func SeedForOrg(ctx context.Context, db *mongo.Database, logger *zap.Logger, orgID primitive.ObjectID) ([]string, error) {
	gs := groupstore.New(db)
	var created []string

	for _, tmpl := range defaultDynamicGroups {
		if _, err := gs.FindSeeded(ctx, orgID, tmpl.DynamicType); err == nil {
			continue
		} else if err != mongo.ErrNoDocuments {
			return created, err
		}

		g := tmpl
		g.OrganizationID = orgID
		g.IsDynamic = true
		g.SeedKey = tmpl.DynamicType

		if _, err := gs.Create(ctx, g); err != nil {
			// A name collision means an admin already made a group with
			// this name; skip rather than fail the whole seed.
			if err == groupstore.ErrDuplicateGroupName {
				logger.Warn("seed skipped: name taken",
					zap.String("org_id", orgID.Hex()),
					zap.String("name", g.Name))
				continue
			}
			return created, err
		}
		created = append(created, g.Name)
	}
	return created, nil
}

// HandleSeedGroups handles POST /groups/seed for the actor's organization.
func (h *Handler) HandleSeedGroups(w http.ResponseWriter, r *http.Request) {
	orgID := authz.UserOrgID(r)
	if !grouppolicy.RequireOrgAdmin(r, orgID) {
		h.ErrLog.Forbidden(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := SeedForOrg(ctx, h.DB, h.Log, orgID)
	if err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}
	if created == nil {
		created = []string{}
	}

	if actor, ok := auth.CurrentUser(r); ok && len(created) > 0 {
		auditlog.New(h.DB, h.Log).Admin(ctx, actor, "group.seed",
			primitive.NilObjectID, strings.Join(created, ", "))
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"created": created})
}
