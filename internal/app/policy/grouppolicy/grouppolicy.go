// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"net/http"

	"github.com/lumenlearn/lumenhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireOrgAdmin is the single authorization predicate for group
// management and dynamic-membership computation. It reports whether the
// current request's user may administer groups belonging to orgID:
//
//   - the user must be authenticated,
//   - must carry the admin role or org_admin membership status, and
//   - must belong to the target organization.
//
// The check is request-scoped and fail-closed: any missing piece yields
// false, and callers translate false into an empty result rather than an
// error.
func RequireOrgAdmin(r *http.Request, orgID primitive.ObjectID) bool {
	if orgID == primitive.NilObjectID {
		return false
	}
	if !authz.IsOrgAdmin(r) {
		return false
	}
	return authz.UserOrgID(r) == orgID
}

// CanManageGroup reports whether the current request's user may manage a
// specific group, given the group's owning organization.
func CanManageGroup(r *http.Request, groupOrgID primitive.ObjectID) bool {
	return RequireOrgAdmin(r, groupOrgID)
}
