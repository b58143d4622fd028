package grouppolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/lumenlearn/lumenhub/internal/app/policy/grouppolicy"
	"github.com/lumenlearn/lumenhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRequireOrgAdmin_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups", nil)
	if grouppolicy.RequireOrgAdmin(r, primitive.NewObjectID()) {
		t.Error("anonymous request must be denied")
	}
}

func TestRequireOrgAdmin_Matrix(t *testing.T) {
	orgID := primitive.NewObjectID()
	otherOrg := primitive.NewObjectID()

	cases := []struct {
		name       string
		role       string
		membership string
		userOrg    primitive.ObjectID
		targetOrg  primitive.ObjectID
		want       bool
	}{
		{"admin in own org", "admin", "", orgID, orgID, true},
		{"org_admin member in own org", "member", "org_admin", orgID, orgID, true},
		{"plain member in own org", "member", "member", orgID, orgID, false},
		{"admin against other org", "admin", "", orgID, otherOrg, false},
		{"org_admin against other org", "member", "org_admin", orgID, otherOrg, false},
		{"nil target org", "admin", "", orgID, primitive.NilObjectID, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/groups", nil)
			r = auth.WithTestUser(r, &auth.SessionUser{
				ID:               primitive.NewObjectID().Hex(),
				Name:             "Test User",
				Role:             tc.role,
				MembershipStatus: tc.membership,
				OrganizationID:   tc.userOrg.Hex(),
			})
			if got := grouppolicy.RequireOrgAdmin(r, tc.targetOrg); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRequireOrgAdmin_UserWithoutOrg(t *testing.T) {
	r := httptest.NewRequest("GET", "/groups", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "admin",
	})
	if grouppolicy.RequireOrgAdmin(r, primitive.NewObjectID()) {
		t.Error("admin without an organization must be denied")
	}
}
