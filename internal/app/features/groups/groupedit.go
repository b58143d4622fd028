// internal/app/features/groups/groupedit.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	groupstore "github.com/lumenlearn/lumenhub/internal/app/store/groups"
	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/app/system/auditlog"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"github.com/lumenlearn/lumenhub/internal/app/system/htmlsanitize"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.uber.org/zap"
)

// editGroupRequest is the POST /groups/{id}/edit body.
type editGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleEditGroup handles POST /groups/{id}/edit: rename and/or replace
// the description. Both fields pass through the HTML sanitizer.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var req editGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	err := groupstore.New(h.DB).UpdateInfo(ctx, g.ID,
		htmlsanitize.Sanitize(req.Name),
		htmlsanitize.Sanitize(req.Description))
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			h.ErrLog.Conflict(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"updated": g.ID.Hex()})
}

// HandleDeleteGroup handles POST /groups/{id}/delete: remove the group and
// any static membership rows it owns.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	// Membership rows first; a dynamic group simply has none.
	if _, err := membershipstore.New(h.DB).DeleteByGroup(ctx, g.ID); err != nil {
		h.Log.Warn("membership cleanup failed",
			zap.String("group_id", g.ID.Hex()),
			zap.Error(err))
	}

	if _, err := groupstore.New(h.DB).Delete(ctx, g.ID); err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}

	if actor, ok := auth.CurrentUser(r); ok {
		auditlog.New(h.DB, h.Log).Admin(ctx, actor, "group.delete", g.ID, g.Name)
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"deleted": g.ID.Hex()})
}

// criteriaRequest is the POST /groups/{id}/criteria body.
type criteriaRequest struct {
	Criteria *models.DynamicCriteria `json:"criteria"`
}

// HandleUpdateCriteria handles POST /groups/{id}/criteria: replace a
// dynamic group's criteria payload after validating it against the group's
// stored dynamic type.
func (h *Handler) HandleUpdateCriteria(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var req criteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	// Validate against the stored type up front so shape problems read as
	// client errors; the store revalidates before the write regardless.
	if !g.IsDynamic {
		h.ErrLog.BadRequest(w, groupstore.ErrNotDynamic.Error())
		return
	}
	if err := models.ValidateCriteria(g.DynamicType, req.Criteria); err != nil {
		h.ErrLog.BadRequest(w, err.Error())
		return
	}

	if err := groupstore.New(h.DB).UpdateCriteria(ctx, g.ID, req.Criteria); err != nil {
		if errors.Is(err, groupstore.ErrNotDynamic) {
			h.ErrLog.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, err)
		return
	}

	if actor, ok := auth.CurrentUser(r); ok {
		auditlog.New(h.DB, h.Log).Admin(ctx, actor, "group.criteria_update", g.ID, g.DynamicType)
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"updated": g.ID.Hex()})
}
