package metricsstore_test

import (
	"testing"
	"time"

	metricsstore "github.com/lumenlearn/lumenhub/internal/app/store/metrics"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/lumenlearn/lumenhub/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	counts := metricsstore.FetchDashboardCounts(ctx, db, org.ID)

	if counts.Users != 0 || counts.Groups != 0 || counts.DynamicGroups != 0 ||
		counts.Conversations != 0 || counts.Collections != 0 {
		t.Errorf("empty org: got %+v, want all zero", counts)
	}
}

func TestFetchDashboardCounts_ScopedToOrg(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	now := time.Now().UTC()

	a := fixtures.CreateMember(ctx, "A", "a@acme.test", org.ID)
	fixtures.CreateMember(ctx, "B", "b@acme.test", org.ID)
	fixtures.CreateDisabledMember(ctx, "C", "c@acme.test", org.ID)
	fixtures.CreateMember(ctx, "D", "d@globex.test", other.ID)

	fixtures.CreateGroup(ctx, "Sales", org.ID)
	fixtures.CreateDynamicGroup(ctx, "Recent", org.ID, models.DynamicRecentLogins,
		models.DynamicCriteria{Days: 7})
	fixtures.CreateGroup(ctx, "Elsewhere", other.ID)

	fixtures.StartConversation(ctx, a.ID, org.ID, now)
	fixtures.CreateCollectionWithItems(ctx, a.ID, org.ID, 2)

	counts := metricsstore.FetchDashboardCounts(ctx, db, org.ID)

	if counts.Users != 2 {
		t.Errorf("Users: got %d, want 2 (active only)", counts.Users)
	}
	if counts.Groups != 2 {
		t.Errorf("Groups: got %d, want 2", counts.Groups)
	}
	if counts.DynamicGroups != 1 {
		t.Errorf("DynamicGroups: got %d, want 1", counts.DynamicGroups)
	}
	if counts.Conversations != 1 {
		t.Errorf("Conversations: got %d, want 1", counts.Conversations)
	}
	if counts.Collections != 1 {
		t.Errorf("Collections: got %d, want 1", counts.Collections)
	}
}
