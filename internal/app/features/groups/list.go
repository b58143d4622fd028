// internal/app/features/groups/list.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	"github.com/lumenlearn/lumenhub/internal/app/policy/grouppolicy"
	groupstore "github.com/lumenlearn/lumenhub/internal/app/store/groups"
	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/app/system/auditlog"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"github.com/lumenlearn/lumenhub/internal/app/system/authz"
	"github.com/lumenlearn/lumenhub/internal/app/system/htmlsanitize"
	"github.com/lumenlearn/lumenhub/internal/app/system/paging"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// groupSummary is one row in the group listing.
type groupSummary struct {
	models.EmployeeGroup
	MemberCount *int64 `json:"member_count,omitempty"` // static groups only
}

// groupsPage is the GET /groups payload: one keyset page of groups with
// cursors for the neighboring pages.
type groupsPage struct {
	Groups  []groupSummary `json:"groups"`
	HasPrev bool           `json:"has_prev"`
	HasNext bool           `json:"has_next"`
	Prev    string         `json:"prev,omitempty"`
	Next    string         `json:"next,omitempty"`
}

// ServeGroupsList handles GET /groups: the actor's org groups ordered by
// name, paged with before/after cursors. Static groups are annotated
// with their stored member count.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	orgID := authz.UserOrgID(r)
	if !grouppolicy.RequireOrgAdmin(r, orgID) {
		h.ErrLog.Forbidden(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gs := groupstore.New(h.DB)
	ms := membershipstore.New(h.DB)

	before, after := paging.Cursors(r)
	cfg := paging.ConfigureKeyset(before, after)

	list, err := gs.GetForOrgPage(ctx, orgID, cfg)
	if err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}
	if cfg.Direction == paging.Backward {
		paging.Reverse(list)
	}
	res := paging.TrimPage(&list, before, after)

	out := make([]groupSummary, 0, len(list))
	for _, g := range list {
		row := groupSummary{EmployeeGroup: g}
		if !g.IsDynamic {
			n, err := ms.CountByGroup(ctx, g.ID)
			if err != nil {
				h.Log.Warn("member count failed",
					zap.String("group_id", g.ID.Hex()),
					zap.Error(err))
			} else {
				row.MemberCount = &n
			}
		}
		out = append(out, row)
	}

	page := groupsPage{Groups: out, HasPrev: res.HasPrev, HasNext: res.HasNext}
	prev, next := paging.BuildCursors(list,
		func(g models.EmployeeGroup) string { return g.NameCI },
		func(g models.EmployeeGroup) primitive.ObjectID { return g.ID })
	if page.HasPrev {
		page.Prev = prev
	}
	if page.HasNext {
		page.Next = next
	}

	uierrors.JSON(w, http.StatusOK, page)
}

// createGroupRequest is the POST /groups body.
type createGroupRequest struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	IsDynamic   bool                    `json:"is_dynamic"`
	DynamicType string                  `json:"dynamic_type"`
	Criteria    *models.DynamicCriteria `json:"criteria"`
}

// HandleCreateGroup handles POST /groups.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	orgID := authz.UserOrgID(r)
	if !grouppolicy.RequireOrgAdmin(r, orgID) {
		h.ErrLog.Forbidden(w)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	name := htmlsanitize.Sanitize(req.Name)
	if strings.TrimSpace(name) == "" {
		h.ErrLog.BadRequest(w, "name is required")
		return
	}

	// Validate up front so malformed criteria read as a client error, not
	// a store failure.
	if req.IsDynamic {
		if err := models.ValidateCriteria(req.DynamicType, req.Criteria); err != nil {
			h.ErrLog.BadRequest(w, err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := groupstore.New(h.DB).Create(ctx, models.EmployeeGroup{
		OrganizationID: orgID,
		Name:           name,
		Description:    htmlsanitize.Sanitize(req.Description),
		IsDynamic:      req.IsDynamic,
		DynamicType:    req.DynamicType,
		Criteria:       req.Criteria,
	})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			h.ErrLog.Conflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, err)
		return
	}

	if actor, ok := auth.CurrentUser(r); ok {
		auditlog.New(h.DB, h.Log).Admin(ctx, actor, "group.create", created.ID, created.Name)
	}

	uierrors.JSON(w, http.StatusCreated, created)
}
