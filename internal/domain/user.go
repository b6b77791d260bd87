package domain

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleMember     Role = "member"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleMember:
		return true
	}
	return false
}

type MembershipStatus string

const (
	MembershipPending   MembershipStatus = "pending"
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipSuspended MembershipStatus = "suspended"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipPending, MembershipActive, MembershipInactive, MembershipSuspended:
		return true
	}
	return false
}

type User struct {
	ID               int32            `json:"id"`
	Email            string           `json:"email"`
	Username         string           `json:"username,omitempty"`
	FullName         string           `json:"full_name"`
	PasswordHash     string           `json:"-"`
	PhoneNumber      string           `json:"phone_number,omitempty"`
	Role             Role             `json:"role"`
	OrganizationID   *int32           `json:"organization_id"`
	MembershipStatus MembershipStatus `json:"membership_status"`
	JoinDate         *time.Time       `json:"join_date"`
	Score            int32            `json:"score"`
	IsActive         bool             `json:"is_active"`
	CreatedOn        time.Time        `json:"created_on"`
	UpdatedOn        time.Time        `json:"updated_on"`
}

// UserFilter narrows an account listing. Search matches name, email or username.
type UserFilter struct {
	Search string
	Role   Role
}

// Affiliated reports whether the user currently belongs to an organization.
func (u *User) Affiliated() bool {
	return u.OrganizationID != nil
}

// Actor is the verified identity tuple behind a request.
type Actor struct {
	UserID         int32  `json:"user_id"`
	Role           Role   `json:"role"`
	OrganizationID *int32 `json:"organization_id"`
	// IsOrgAdmin is derived from organizations.admin_id; it is never stored on the user.
	IsOrgAdmin bool `json:"is_org_admin"`
	IsActive   bool `json:"is_active"`
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// BelongsTo reports whether the actor is affiliated with orgID.
func (a Actor) BelongsTo(orgID int32) bool {
	return a.OrganizationID != nil && *a.OrganizationID == orgID
}

// AdministersOrg reports whether the actor is the admin of orgID.
func (a Actor) AdministersOrg(orgID int32) bool {
	return a.IsOrgAdmin && a.BelongsTo(orgID)
}
