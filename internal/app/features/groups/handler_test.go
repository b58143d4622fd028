package groups_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lumenlearn/lumenhub/internal/app/features/groups"
	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/lumenlearn/lumenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestServeGroupsList_RequiresOrgAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	h := groups.NewHandler(db, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("GET", "/groups", testutil.MemberUser(org.ID))
	rec := testutil.NewRecorder()
	h.ServeGroupsList(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleCreateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	h := groups.NewHandler(db, zap.NewNop())
	admin := testutil.OrgAdminUser(org.ID)

	// Static group with a script in the name: sanitizer strips the markup.
	req := testutil.WithUser(testutil.NewJSONRequest("POST", "/groups",
		`{"name":"Sales <script>alert(1)</script>Team"}`), admin)
	rec := testutil.NewRecorder()
	h.HandleCreateGroup(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	var created models.EmployeeGroup
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Name != "Sales Team" {
		t.Errorf("sanitized name: got %q, want %q", created.Name, "Sales Team")
	}

	// Dynamic group with malformed criteria is rejected.
	req = testutil.WithUser(testutil.NewJSONRequest("POST", "/groups",
		`{"name":"Busy Bees","is_dynamic":true,"dynamic_type":"most_active","criteria":{"period_days":30,"threshold":150,"metrics":["streaks"]}}`), admin)
	rec = testutil.NewRecorder()
	h.HandleCreateGroup(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	// And a well-formed one is accepted.
	req = testutil.WithUser(testutil.NewJSONRequest("POST", "/groups",
		`{"name":"Busy Bees","is_dynamic":true,"dynamic_type":"most_active","criteria":{"period_days":30,"threshold":50,"metrics":["streaks"]}}`), admin)
	rec = testutil.NewRecorder()
	h.HandleCreateGroup(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)
}

func TestServeGroupMembers_SilentEmptyOnDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	now := time.Now().UTC()

	member := fixtures.CreateMember(ctx, "Pat", "pat@acme.test", org.ID)
	fixtures.RecordProgress(ctx, member.ID, org.ID, 60, false, now.AddDate(0, 0, -1))
	group := fixtures.CreateDynamicGroup(ctx, "Recently Active", org.ID,
		models.DynamicRecentLogins, models.DynamicCriteria{Days: 7})

	h := groups.NewHandler(db, zap.NewNop())

	fetch := func(user testutil.TestUser) (int, []string) {
		req := testutil.NewAuthenticatedRequest("GET", "/groups/"+group.ID.Hex()+"/members", user)
		req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
		rec := testutil.NewRecorder()
		h.ServeGroupMembers(rec.ResponseRecorder, req)

		var body struct {
			UserIDs []string `json:"user_ids"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return rec.Code, body.UserIDs
	}

	// An org admin of the owning org sees the membership.
	code, ids := fetch(testutil.OrgAdminUser(org.ID))
	if code != http.StatusOK || len(ids) != 1 || ids[0] != member.ID.Hex() {
		t.Errorf("owner admin: code=%d ids=%v, want 200 with one member", code, ids)
	}

	// A foreign org admin gets 200 and an empty list, not a 403.
	code, ids = fetch(testutil.OrgAdminUser(other.ID))
	if code != http.StatusOK {
		t.Errorf("foreign admin: code=%d, want 200", code)
	}
	if len(ids) != 0 {
		t.Errorf("foreign admin: got %v, want empty member list", ids)
	}

	// A plain member of the owning org also reads as empty.
	code, ids = fetch(testutil.MemberUser(org.ID))
	if code != http.StatusOK || len(ids) != 0 {
		t.Errorf("plain member: code=%d ids=%v, want 200 with empty list", code, ids)
	}
}

func TestHandleReplaceMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	group := fixtures.CreateGroup(ctx, "Sales", org.ID)
	a := fixtures.CreateMember(ctx, "A", "a@acme.test", org.ID)
	b := fixtures.CreateMember(ctx, "B", "b@acme.test", org.ID)
	fixtures.AddMembership(ctx, group.ID, a.ID, org.ID)

	h := groups.NewHandler(db, zap.NewNop())
	admin := testutil.OrgAdminUser(org.ID)

	body := `{"user_ids":["` + b.ID.Hex() + `"]}`
	req := testutil.WithUser(testutil.NewJSONRequest("POST",
		"/groups/"+group.ID.Hex()+"/members/replace", body), admin)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleReplaceMembers(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	got, err := membershipstore.New(db).ListUserIDs(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListUserIDs: %v", err)
	}
	if len(got) != 1 || got[0] != b.ID {
		t.Errorf("after replace: got %v, want only %s", got, b.ID.Hex())
	}
}

func TestHandleSeedGroups_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	h := groups.NewHandler(db, zap.NewNop())
	admin := testutil.OrgAdminUser(org.ID)

	seed := func() []string {
		req := testutil.NewAuthenticatedRequest("POST", "/groups/seed", admin)
		rec := testutil.NewRecorder()
		h.HandleSeedGroups(rec.ResponseRecorder, req)
		rec.AssertStatus(t, http.StatusOK)

		var body struct {
			Created []string `json:"created"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return body.Created
	}

	first := seed()
	if len(first) != len(models.DynamicTypes) {
		t.Errorf("first seed: created %d groups, want %d", len(first), len(models.DynamicTypes))
	}

	second := seed()
	if len(second) != 0 {
		t.Errorf("second seed: created %v, want none", second)
	}

	n, err := db.Collection("employee_groups").CountDocuments(ctx, bson.M{"organization_id": org.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != int64(len(models.DynamicTypes)) {
		t.Errorf("group count after double seed: got %d, want %d", n, len(models.DynamicTypes))
	}
}

func TestServeExportMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	member := fixtures.CreateMember(ctx, "Pat Smith", "pat@acme.test", org.ID)
	group := fixtures.CreateGroup(ctx, "Sales", org.ID)
	fixtures.AddMembership(ctx, group.ID, member.ID, org.ID)

	h := groups.NewHandler(db, zap.NewNop())

	fetch := func(user testutil.TestUser) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("GET",
			"/groups/"+group.ID.Hex()+"/members/export", user)
		req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
		rec := testutil.NewRecorder()
		h.ServeExportMembers(rec.ResponseRecorder, req)
		return rec
	}

	rec := fetch(testutil.OrgAdminUser(org.ID))
	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: got %q", ct)
	}
	rec.AssertContains(t, "full_name,email")
	rec.AssertContains(t, "pat@acme.test")

	// A foreign admin downloads a header-only file, mirroring the
	// members endpoint's silent-empty reads.
	rec = fetch(testutil.OrgAdminUser(other.ID))
	rec.AssertStatus(t, http.StatusOK)
	if strings.Contains(rec.Body.String(), "pat@acme.test") {
		t.Error("foreign admin should not see member rows")
	}
}
