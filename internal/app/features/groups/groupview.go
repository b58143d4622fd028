// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	"github.com/lumenlearn/lumenhub/internal/app/policy/grouppolicy"
	groupstore "github.com/lumenlearn/lumenhub/internal/app/store/groups"
	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/app/store/queries/groupmembers"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loadAuthorizedGroup resolves the {id} URL param and checks the actor may
// manage the group. The ok result is false for a bad ID, a missing group,
// or a policy violation; membership reads translate that into an empty
// result rather than an error.
func (h *Handler) loadAuthorizedGroup(ctx context.Context, r *http.Request) (models.EmployeeGroup, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return models.EmployeeGroup{}, false
	}

	g, err := groupstore.New(h.DB).GetByID(ctx, oid)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.Log.Warn("group lookup failed", zap.String("group_id", oid.Hex()), zap.Error(err))
		}
		return models.EmployeeGroup{}, false
	}

	if !grouppolicy.CanManageGroup(r, g.OrganizationID) {
		h.Log.Debug("group access denied",
			zap.String("group_id", g.ID.Hex()),
			zap.String("org_id", g.OrganizationID.Hex()))
		return models.EmployeeGroup{}, false
	}
	return g, true
}

// groupViewResponse is the GET /groups/{id} payload.
type groupViewResponse struct {
	Group   models.EmployeeGroup    `json:"group"`
	Members []groupmembers.MemberRow `json:"members"`
}

// ServeGroupView handles GET /groups/{id}: the group document plus its
// current members with activity stats. Dynamic membership is computed
// fresh; an unauthorized or missing group reads as empty, not as an error.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		uierrors.JSON(w, http.StatusOK, groupViewResponse{Members: []groupmembers.MemberRow{}})
		return
	}

	ids, err := h.memberIDs(ctx, r, g)
	if err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}

	rows, err := groupmembers.ListByUserIDs(ctx, h.DB, ids)
	if err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}
	if rows == nil {
		rows = []groupmembers.MemberRow{}
	}

	uierrors.JSON(w, http.StatusOK, groupViewResponse{Group: g, Members: rows})
}

// groupStatsResponse is the GET /groups/{id}/stats payload.
type groupStatsResponse struct {
	MemberCount    int64   `json:"member_count"`
	IsDynamic      bool    `json:"is_dynamic"`
	DynamicType    string  `json:"dynamic_type,omitempty"`
	LastComputedAt *string `json:"last_computed_at,omitempty"`
}

// ServeGroupStats handles GET /groups/{id}/stats.
func (h *Handler) ServeGroupStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		uierrors.JSON(w, http.StatusOK, groupStatsResponse{})
		return
	}

	resp := groupStatsResponse{
		IsDynamic:   g.IsDynamic,
		DynamicType: g.DynamicType,
	}
	if g.LastComputedAt != nil {
		s := g.LastComputedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		resp.LastComputedAt = &s
	}

	if g.IsDynamic {
		ids, err := h.memberIDs(ctx, r, g)
		if err != nil {
			h.ErrLog.Internal(w, r, err)
			return
		}
		resp.MemberCount = int64(len(ids))
	} else {
		n, err := membershipstore.New(h.DB).CountByGroup(ctx, g.ID)
		if err != nil {
			h.ErrLog.Internal(w, r, err)
			return
		}
		resp.MemberCount = n
	}

	uierrors.JSON(w, http.StatusOK, resp)
}
