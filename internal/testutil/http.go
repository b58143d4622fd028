package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID               string
	Name             string
	Email            string
	Role             string
	MembershipStatus string
	OrganizationID   string
}

// AdminUser returns a TestUser with the platform admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	}
}

// OrgAdminUser returns a TestUser with org-admin membership in the given
// organization.
func OrgAdminUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:               primitive.NewObjectID().Hex(),
		Name:             "Test Org Admin",
		Email:            "orgadmin@test.com",
		Role:             "member",
		MembershipStatus: "org_admin",
		OrganizationID:   orgID.Hex(),
	}
}

// MemberUser returns a TestUser with regular membership in the given
// organization.
func MemberUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:               primitive.NewObjectID().Hex(),
		Name:             "Test Member",
		Email:            "member@test.com",
		Role:             "member",
		MembershipStatus: "member",
		OrganizationID:   orgID.Hex(),
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user
// directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		MembershipStatus: user.MembershipStatus,
		OrganizationID:   user.OrganizationID,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q (body: %s)", expected, r.Body.String())
	}
}
