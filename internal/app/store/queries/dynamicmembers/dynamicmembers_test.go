package dynamicmembers_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/lumenlearn/lumenhub/internal/app/store/groups"
	"github.com/lumenlearn/lumenhub/internal/app/store/queries/dynamicmembers"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/lumenlearn/lumenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	out := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func TestResolve_RecentAndNoLoginsAreComplementary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	now := time.Now().UTC()

	courseUser := fixtures.CreateMember(ctx, "Course", "course@acme.test", org.ID)
	chatUser := fixtures.CreateMember(ctx, "Chat", "chat@acme.test", org.ID)
	streakUser := fixtures.CreateMember(ctx, "Streak", "streak@acme.test", org.ID)
	idleUser := fixtures.CreateMember(ctx, "Idle", "idle@acme.test", org.ID)
	staleUser := fixtures.CreateMember(ctx, "Stale", "stale@acme.test", org.ID)

	// Three different activity sources, all inside the 7-day window.
	fixtures.RecordProgress(ctx, courseUser.ID, org.ID, 60, false, now.AddDate(0, 0, -1))
	fixtures.StartConversation(ctx, chatUser.ID, org.ID, now.AddDate(0, 0, -2))
	fixtures.RecordStreak(ctx, streakUser.ID, org.ID, 2, now.AddDate(0, 0, -3))
	// Activity outside the window does not count.
	fixtures.RecordProgress(ctx, staleUser.ID, org.ID, 60, false, now.AddDate(0, 0, -30))

	recent := fixtures.CreateDynamicGroup(ctx, "Recently Active", org.ID,
		models.DynamicRecentLogins, models.DynamicCriteria{Days: 7})
	dormant := fixtures.CreateDynamicGroup(ctx, "Dormant", org.ID,
		models.DynamicNoLogins, models.DynamicCriteria{Days: 7})

	logger := zap.NewNop()

	active, err := dynamicmembers.Resolve(ctx, db, logger, recent)
	if err != nil {
		t.Fatalf("Resolve recent_logins: %v", err)
	}
	inactive, err := dynamicmembers.Resolve(ctx, db, logger, dormant)
	if err != nil {
		t.Fatalf("Resolve no_logins: %v", err)
	}

	activeSet := idSet(active)
	inactiveSet := idSet(inactive)

	for _, u := range []models.User{courseUser, chatUser, streakUser} {
		if !activeSet[u.ID] {
			t.Errorf("%s should be in recent_logins", u.FullName)
		}
		if inactiveSet[u.ID] {
			t.Errorf("%s should not be in no_logins", u.FullName)
		}
	}
	for _, u := range []models.User{idleUser, staleUser} {
		if activeSet[u.ID] {
			t.Errorf("%s should not be in recent_logins", u.FullName)
		}
		if !inactiveSet[u.ID] {
			t.Errorf("%s should be in no_logins", u.FullName)
		}
	}

	// Together the two groups partition the candidate universe.
	if len(active)+len(inactive) != 5 {
		t.Errorf("partition size: got %d+%d, want 5", len(active), len(inactive))
	}
}

func TestResolve_ExcludesDisabledAndForeignUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	now := time.Now().UTC()

	disabled := fixtures.CreateDisabledMember(ctx, "Gone", "gone@acme.test", org.ID)
	foreign := fixtures.CreateMember(ctx, "Elsewhere", "el@globex.test", other.ID)
	fixtures.RecordProgress(ctx, disabled.ID, org.ID, 60, false, now)
	fixtures.RecordProgress(ctx, foreign.ID, other.ID, 60, false, now)

	dormant := fixtures.CreateDynamicGroup(ctx, "Dormant", org.ID,
		models.DynamicNoLogins, models.DynamicCriteria{Days: 7})

	got, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), dormant)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Disabled and foreign users are outside the candidate universe, so
	// they appear in neither partition.
	if len(got) != 0 {
		t.Errorf("no_logins over empty universe: got %d members, want 0", len(got))
	}
}

func TestResolve_ThresholdScoring(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	now := time.Now().UTC()

	// Credit totals 100 / 50 / 0 normalize to scores 100 / 50 / 0.
	top := fixtures.CreateMember(ctx, "Top", "top@acme.test", org.ID)
	mid := fixtures.CreateMember(ctx, "Mid", "mid@acme.test", org.ID)
	low := fixtures.CreateMember(ctx, "Low", "low@acme.test", org.ID)
	fixtures.AwardCredits(ctx, top.ID, org.ID, 100, now.AddDate(0, 0, -1))
	fixtures.AwardCredits(ctx, mid.ID, org.ID, 50, now.AddDate(0, 0, -1))

	group := fixtures.CreateDynamicGroup(ctx, "Top Learners", org.ID,
		models.DynamicTopLearners, models.DynamicCriteria{
			PeriodDays: 30,
			Threshold:  50,
			Metrics:    []string{models.MetricCreditsEarned},
		})

	got, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), group)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	set := idSet(got)
	if !set[top.ID] {
		t.Error("top scorer missing")
	}
	if !set[mid.ID] {
		t.Error("threshold is inclusive: score exactly 50 must pass")
	}
	if set[low.ID] {
		t.Error("zero scorer should not pass threshold 50")
	}
}

func TestResolve_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	now := time.Now().UTC()
	u := fixtures.CreateMember(ctx, "Pat", "pat@acme.test", org.ID)
	fixtures.RecordProgress(ctx, u.ID, org.ID, 60, false, now.AddDate(0, 0, -1))

	group := fixtures.CreateDynamicGroup(ctx, "Recently Active", org.ID,
		models.DynamicRecentLogins, models.DynamicCriteria{Days: 7})

	first, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), group)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), group)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("resolve not stable: %d then %d members", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("member order changed at %d: %s vs %s", i, first[i].Hex(), second[i].Hex())
		}
	}
}

func TestResolve_TouchesLastComputedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	group := fixtures.CreateDynamicGroup(ctx, "Recently Active", org.ID,
		models.DynamicRecentLogins, models.DynamicCriteria{Days: 7})

	before := time.Now().UTC().Add(-time.Second)
	if _, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), group); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	got, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastComputedAt == nil || got.LastComputedAt.Before(before) {
		t.Errorf("last_computed_at not advanced: %v", got.LastComputedAt)
	}
}

func TestResolve_StaticGroupRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	static := fixtures.CreateGroup(ctx, "Sales", org.ID)

	_, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), static)
	if !errors.Is(err, dynamicmembers.ErrStaticGroup) {
		t.Fatalf("static group: got %v, want ErrStaticGroup", err)
	}
}

func TestResolve_UnknownTypeResolvesEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	fixtures.CreateMember(ctx, "Pat", "pat@acme.test", org.ID)

	// A bad tag written around the validation layer must not break reads.
	group := fixtures.CreateDynamicGroup(ctx, "Mystery", org.ID,
		"retired_type", models.DynamicCriteria{Days: 7})

	got, err := dynamicmembers.Resolve(ctx, db, zap.NewNop(), group)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown type: got %d members, want 0", len(got))
	}
}
