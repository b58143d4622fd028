// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles carried on a profile. A user can manage groups for an organization
// when Role is "admin" or MembershipStatus is "org_admin"; everyone else is
// a plain member.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	MembershipOrgAdmin = "org_admin"
	MembershipMember   = "member"
)

// User is an employee profile.
//
// NOTE:
//   - Group membership is not embedded here. Static membership lives in
//     the employee_group_members collection; dynamic membership is never
//     stored at all.
type User struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FullName         string              `bson:"full_name" json:"full_name"`
	FullNameCI       string              `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email            string              `bson:"email" json:"email"`
	EmailCI          string              `bson:"email_ci" json:"email_ci"`
	PasswordHash     string              `bson:"password_hash,omitempty" json:"-"`
	AuthMethod       string              `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // "password" | "google"
	Role             string              `bson:"role" json:"role"`                                   // admin | member
	MembershipStatus string              `bson:"membership_status,omitempty" json:"membership_status,omitempty"`
	Status           string              `bson:"status,omitempty" json:"status,omitempty"`
	OrganizationID   *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOrgAdmin reports whether this profile can administer groups in its
// organization.
func (u User) IsOrgAdmin() bool {
	return u.Role == RoleAdmin || u.MembershipStatus == MembershipOrgAdmin
}
