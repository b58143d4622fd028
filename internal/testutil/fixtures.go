package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/lumenlearn/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization creates a test organization with the given name.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// CreateUser creates a test user with the given role and membership status.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role, membershipStatus string, orgID *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:               primitive.NewObjectID(),
		FullName:         fullName,
		FullNameCI:       text.Fold(fullName),
		Email:            email,
		EmailCI:          text.Fold(email),
		AuthMethod:       "password",
		Role:             role,
		MembershipStatus: membershipStatus,
		Status:           "active",
		OrganizationID:   orgID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test platform admin.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin, "", nil)
}

// CreateOrgAdmin creates a test organization admin.
func (f *Fixtures) CreateOrgAdmin(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleMember, models.MembershipOrgAdmin, &orgID)
}

// CreateMember creates a test regular member.
func (f *Fixtures) CreateMember(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleMember, models.MembershipMember, &orgID)
}

// CreateDisabledMember creates a test member with disabled status.
func (f *Fixtures) CreateDisabledMember(ctx context.Context, fullName, email string, orgID primitive.ObjectID) models.User {
	f.t.Helper()

	u := f.CreateMember(ctx, fullName, email, orgID)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"status": "disabled"}}); err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = "disabled"
	return u
}

// CreateGroup creates a static test group.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, orgID primitive.ObjectID) models.EmployeeGroup {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.EmployeeGroup{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		NameCI:         text.Fold(name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("employee_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateDynamicGroup creates a dynamic test group with the given type and
// criteria.
func (f *Fixtures) CreateDynamicGroup(ctx context.Context, name string, orgID primitive.ObjectID, dynType string, criteria models.DynamicCriteria) models.EmployeeGroup {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.EmployeeGroup{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		NameCI:         text.Fold(name),
		IsDynamic:      true,
		DynamicType:    dynType,
		Criteria:       &criteria,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("employee_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test dynamic group: %v", err)
	}
	return g
}

// AddMembership adds a static membership row directly.
func (f *Fixtures) AddMembership(ctx context.Context, groupID, userID, orgID primitive.ObjectID) models.GroupMembership {
	f.t.Helper()

	m := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		OrgID:     orgID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("employee_group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// RecordProgress inserts a course progress row.
func (f *Fixtures) RecordProgress(ctx context.Context, userID, orgID primitive.ObjectID, viewTimeSeconds int64, completed bool, lastAccessed time.Time) models.ProgressRecord {
	f.t.Helper()

	p := models.ProgressRecord{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		OrgID:           orgID,
		CourseID:        primitive.NewObjectID(),
		ViewTimeSeconds: viewTimeSeconds,
		IsCompleted:     completed,
		LastAccessed:    lastAccessed.UTC(),
	}
	if _, err := f.db.Collection("user_progress").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test progress: %v", err)
	}
	return p
}

// StartConversation inserts a conversation created at the given time.
func (f *Fixtures) StartConversation(ctx context.Context, userID, orgID primitive.ObjectID, at time.Time) models.Conversation {
	f.t.Helper()

	conv := models.Conversation{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		OrgID:     orgID,
		Title:     "Test Conversation",
		CreatedAt: at.UTC(),
		UpdatedAt: at.UTC(),
	}
	if _, err := f.db.Collection("conversations").InsertOne(ctx, conv); err != nil {
		f.t.Fatalf("failed to create test conversation: %v", err)
	}
	return conv
}

// AddMessage inserts a message on a conversation.
func (f *Fixtures) AddMessage(ctx context.Context, conversationID primitive.ObjectID, role string, at time.Time) models.ConversationMessage {
	f.t.Helper()

	msg := models.ConversationMessage{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		Role:           role,
		Content:        "test message",
		CreatedAt:      at.UTC(),
	}
	if _, err := f.db.Collection("conversation_messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return msg
}

// RecordStreak inserts a streak snapshot.
func (f *Fixtures) RecordStreak(ctx context.Context, userID, orgID primitive.ObjectID, currentStreak int, day time.Time) models.StreakRecord {
	f.t.Helper()

	rec := models.StreakRecord{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		OrgID:         orgID,
		CurrentStreak: currentStreak,
		ActivityDate:  day.UTC().Truncate(24 * time.Hour),
	}
	if _, err := f.db.Collection("user_streaks").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test streak: %v", err)
	}
	return rec
}

// AwardCredits inserts a credit ledger entry.
func (f *Fixtures) AwardCredits(ctx context.Context, userID, orgID primitive.ObjectID, amount float64, at time.Time) models.CreditEntry {
	f.t.Helper()

	entry := models.CreditEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		OrgID:     orgID,
		Amount:    amount,
		Reason:    "test award",
		AwardedAt: at.UTC(),
	}
	if _, err := f.db.Collection("user_credits").InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create test credit entry: %v", err)
	}
	return entry
}

// CreateCollectionWithItems creates a collection owned by the user with n
// items.
func (f *Fixtures) CreateCollectionWithItems(ctx context.Context, ownerID, orgID primitive.ObjectID, n int) models.Collection {
	f.t.Helper()

	now := time.Now().UTC()
	col := models.Collection{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		OrgID:     orgID,
		Title:     "Test Collection",
		TitleCI:   text.Fold("Test Collection"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("user_collections").InsertOne(ctx, col); err != nil {
		f.t.Fatalf("failed to create test collection: %v", err)
	}

	for i := 0; i < n; i++ {
		item := models.CollectionItem{
			ID:           primitive.NewObjectID(),
			CollectionID: col.ID,
			OwnerID:      ownerID,
			RefID:        primitive.NewObjectID(),
			CreatedAt:    now,
		}
		if _, err := f.db.Collection("collection_items").InsertOne(ctx, item); err != nil {
			f.t.Fatalf("failed to create test collection item: %v", err)
		}
	}
	return col
}
