package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/lumenlearn/lumenhub/internal/app/store/memberships"
	"github.com/lumenlearn/lumenhub/internal/app/system/indexes"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"github.com/lumenlearn/lumenhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAdd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	group := fixtures.CreateGroup(ctx, "Sales", org.ID)
	member := fixtures.CreateMember(ctx, "Pat Jones", "pat@acme.test", org.ID)
	outsider := fixtures.CreateMember(ctx, "Sam Roe", "sam@globex.test", other.ID)

	store := membershipstore.New(db)

	if err := store.Add(ctx, group.ID, member.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Second add of the same pair is a duplicate.
	err := store.Add(ctx, group.ID, member.ID)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("duplicate add: got %v, want ErrDuplicateMembership", err)
	}

	// Cross-org membership is rejected.
	if err := store.Add(ctx, group.ID, outsider.ID); err == nil {
		t.Error("Add accepted a user from another organization")
	}

	n, err := store.CountByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("CountByGroup: %v", err)
	}
	if n != 1 {
		t.Errorf("CountByGroup: got %d, want 1", n)
	}
}

func TestAdd_DynamicGroupRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	dyn := fixtures.CreateDynamicGroup(ctx, "Recent", org.ID, models.DynamicRecentLogins,
		models.DynamicCriteria{Days: 7})
	member := fixtures.CreateMember(ctx, "Pat Jones", "pat@acme.test", org.ID)

	store := membershipstore.New(db)

	err := store.Add(ctx, dyn.ID, member.ID)
	if !errors.Is(err, membershipstore.ErrDynamicGroup) {
		t.Fatalf("Add to dynamic group: got %v, want ErrDynamicGroup", err)
	}
	if err := store.ReplaceAll(ctx, dyn.ID, []primitive.ObjectID{member.ID}); !errors.Is(err, membershipstore.ErrDynamicGroup) {
		t.Fatalf("ReplaceAll on dynamic group: got %v, want ErrDynamicGroup", err)
	}
}

func TestReplaceAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	group := fixtures.CreateGroup(ctx, "Sales", org.ID)
	a := fixtures.CreateMember(ctx, "A", "a@acme.test", org.ID)
	b := fixtures.CreateMember(ctx, "B", "b@acme.test", org.ID)
	c := fixtures.CreateMember(ctx, "C", "c@acme.test", org.ID)

	store := membershipstore.New(db)
	fixtures.AddMembership(ctx, group.ID, a.ID, org.ID)

	// Replacement drops a and installs b and c; duplicate input collapses.
	err := store.ReplaceAll(ctx, group.ID, []primitive.ObjectID{b.ID, c.ID, b.ID})
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	got, err := store.ListUserIDs(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListUserIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListUserIDs: got %d members, want 2", len(got))
	}
	want := map[primitive.ObjectID]bool{b.ID: true, c.ID: true}
	for _, id := range got {
		if !want[id] {
			t.Errorf("unexpected member %s", id.Hex())
		}
	}

	// Empty replacement clears the group.
	if err := store.ReplaceAll(ctx, group.ID, nil); err != nil {
		t.Fatalf("ReplaceAll empty: %v", err)
	}
	n, err := store.CountByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("CountByGroup: %v", err)
	}
	if n != 0 {
		t.Errorf("after empty replace: got %d members, want 0", n)
	}
}

func TestRemoveAndDeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Acme")
	group := fixtures.CreateGroup(ctx, "Sales", org.ID)
	a := fixtures.CreateMember(ctx, "A", "a@acme.test", org.ID)
	b := fixtures.CreateMember(ctx, "B", "b@acme.test", org.ID)

	fixtures.AddMembership(ctx, group.ID, a.ID, org.ID)
	fixtures.AddMembership(ctx, group.ID, b.ID, org.ID)

	store := membershipstore.New(db)

	if err := store.Remove(ctx, group.ID, a.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, err := store.ListUserIDs(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListUserIDs: %v", err)
	}
	if len(got) != 1 || got[0] != b.ID {
		t.Errorf("after Remove: got %v, want only %s", got, b.ID.Hex())
	}

	n, err := store.DeleteByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("DeleteByGroup: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteByGroup: got %d deleted, want 1", n)
	}
}
