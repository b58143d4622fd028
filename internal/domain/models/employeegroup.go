// internal/domain/models/employeegroup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dynamic group type tags. A dynamic group's membership is recomputed from
// activity data on every read; it is never persisted.
const (
	DynamicRecentLogins  = "recent_logins"
	DynamicNoLogins      = "no_logins"
	DynamicMostActive    = "most_active"
	DynamicTopLearners   = "top_learners"
	DynamicMostTalkative = "most_talkative"
)

// DynamicTypes lists every supported dynamic group type tag.
var DynamicTypes = []string{
	DynamicRecentLogins,
	DynamicNoLogins,
	DynamicMostActive,
	DynamicTopLearners,
	DynamicMostTalkative,
}

// EmployeeGroup is an organization-scoped collection of users.
//
// Invariant: DynamicType and Criteria are present iff IsDynamic is true,
// and the criteria shape must match the type (see ValidateCriteria).
// Static groups instead own explicit rows in employee_group_members.
type EmployeeGroup struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"name_ci"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`

	IsDynamic   bool             `bson:"is_dynamic" json:"is_dynamic"`
	DynamicType string           `bson:"dynamic_type,omitempty" json:"dynamic_type,omitempty"`
	Criteria    *DynamicCriteria `bson:"criteria,omitempty" json:"criteria,omitempty"`

	// LastComputedAt is touched every time dynamic membership is resolved.
	LastComputedAt *time.Time `bson:"last_computed_at,omitempty" json:"last_computed_at,omitempty"`

	// SeedKey marks groups created by the default-group seeder so seeding
	// stays idempotent per organization.
	SeedKey string `bson:"seed_key,omitempty" json:"seed_key,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupMembership is the authoritative join between users and static groups.
// Exactly one document per (group_id, user_id). Never written for dynamic
// groups.
type GroupMembership struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	OrgID     primitive.ObjectID `bson:"org_id" json:"org_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
