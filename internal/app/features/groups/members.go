// internal/app/features/groups/members.go
package groups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/lumenlearn/lumenhub/internal/app/features/errors"
	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/app/store/queries/dynamicmembers"
	"github.com/lumenlearn/lumenhub/internal/app/system/timeouts"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberIDs returns the group's current member IDs: resolved fresh for
// dynamic groups, read from membership rows for static ones.
func (h *Handler) memberIDs(ctx context.Context, r *http.Request, g models.EmployeeGroup) ([]primitive.ObjectID, error) {
	if g.IsDynamic {
		return dynamicmembers.Resolve(ctx, h.DB, h.Log, g)
	}
	return membershipstore.New(h.DB).ListUserIDs(ctx, g.ID)
}

// membersResponse is the GET /groups/{id}/members payload.
type membersResponse struct {
	GroupID   string   `json:"group_id,omitempty"`
	IsDynamic bool     `json:"is_dynamic"`
	UserIDs   []string `json:"user_ids"`
}

// ServeGroupMembers handles GET /groups/{id}/members. A bad ID, missing
// group, or unauthorized actor yields an empty member list with a 200;
// callers cannot distinguish "no members" from "not yours to see".
func (h *Handler) ServeGroupMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		uierrors.JSON(w, http.StatusOK, membersResponse{UserIDs: []string{}})
		return
	}

	ids, err := h.memberIDs(ctx, r, g)
	if err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}

	hexIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		hexIDs = append(hexIDs, id.Hex())
	}

	uierrors.JSON(w, http.StatusOK, membersResponse{
		GroupID:   g.ID.Hex(),
		IsDynamic: g.IsDynamic,
		UserIDs:   hexIDs,
	})
}

// replaceMembersRequest is the POST /groups/{id}/members/replace body.
type replaceMembersRequest struct {
	UserIDs []string `json:"user_ids"`
}

// HandleReplaceMembers handles POST /groups/{id}/members/replace: swap a
// static group's entire membership for the given set.
func (h *Handler) HandleReplaceMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	var req replaceMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		oid, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.ErrLog.BadRequest(w, "invalid user id: "+raw)
			return
		}
		ids = append(ids, oid)
	}

	if err := membershipstore.New(h.DB).ReplaceAll(ctx, g.ID, ids); err != nil {
		if errors.Is(err, membershipstore.ErrDynamicGroup) {
			h.ErrLog.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.Internal(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"replaced": len(ids)})
}

// memberChangeRequest is the add/remove body.
type memberChangeRequest struct {
	UserID string `json:"user_id"`
}

// HandleAddMember handles POST /groups/{id}/members/add.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	uid, ok := h.decodeMemberChange(w, r)
	if !ok {
		return
	}

	if err := membershipstore.New(h.DB).Add(ctx, g.ID, uid); err != nil {
		switch {
		case errors.Is(err, membershipstore.ErrDuplicateMembership):
			h.ErrLog.Conflict(w, err.Error())
		case errors.Is(err, membershipstore.ErrDynamicGroup):
			h.ErrLog.BadRequest(w, err.Error())
		default:
			h.ErrLog.Internal(w, r, err)
		}
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"added": uid.Hex()})
}

// HandleRemoveMember handles POST /groups/{id}/members/remove.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, ok := h.loadAuthorizedGroup(ctx, r)
	if !ok {
		h.ErrLog.Forbidden(w)
		return
	}

	uid, ok := h.decodeMemberChange(w, r)
	if !ok {
		return
	}

	if err := membershipstore.New(h.DB).Remove(ctx, g.ID, uid); err != nil {
		h.ErrLog.Internal(w, r, err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"removed": uid.Hex()})
}

func (h *Handler) decodeMemberChange(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	var req memberChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid user id")
		return primitive.NilObjectID, false
	}
	return uid, true
}
