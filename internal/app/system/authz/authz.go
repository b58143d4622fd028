// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false — callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user carries the global
// admin role.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsOrgAdmin reports whether the current request's user can administer
// groups: either the global admin role or org_admin membership status.
func IsOrgAdmin(r *http.Request) bool {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return false
	}
	role := strings.ToLower(user.Role)
	return role == "admin" || strings.ToLower(user.MembershipStatus) == "org_admin"
}

// UserOrgID returns the current user's organization ID as an ObjectID, or
// NilObjectID if the user is not signed in or has no organization.
func UserOrgID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.OrganizationID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.OrganizationID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
