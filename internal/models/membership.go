package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization roles, highest to lowest privilege.
const (
	OrgRoleOwner   = "owner"
	OrgRoleManager = "manager"
	OrgRoleStaff   = "staff"
)

// Membership lifecycle states. A row with status pending (or
// accepted_pending_registration) is an invitation: it carries an invited
// email and has no resolved user yet.
const (
	MembershipActive             = "active"
	MembershipPending            = "pending"
	MembershipDeclined           = "declined"
	MembershipRevoked            = "revoked"
	MembershipAcceptedPendingReg = "accepted_pending_registration"
)

// Membership relates a user to an organization with exactly one role.
// UserID is nil while the row is an unresolved invitation; the composite
// unique index still holds because Postgres treats NULLs as distinct.
type Membership struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_org_user;index" json:"organization_id"`
	UserID            *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_memberships_org_user;index" json:"user_id,omitempty"`
	InvitedEmail      string     `gorm:"size:255;index" json:"invited_email,omitempty"`
	Role              string     `gorm:"size:20;not null" json:"role"`
	Status            string     `gorm:"size:40;not null;default:'active'" json:"status"`
	InvitedBy         *uuid.UUID `gorm:"type:uuid" json:"invited_by,omitempty"`
	InvitationExpires *time.Time `json:"invitation_expires,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

// ValidOrgRole reports whether r is one of the closed role enum values.
func ValidOrgRole(r string) bool {
	switch r {
	case OrgRoleOwner, OrgRoleManager, OrgRoleStaff:
		return true
	}
	return false
}

// InvitationExpired reports whether the row is a pending invitation whose
// expiry has passed. Expiry is enforced at read/accept time; the stored
// status is never mutated by the clock.
func (m *Membership) InvitationExpired(now time.Time) bool {
	return m.Status == MembershipPending &&
		m.InvitationExpires != nil &&
		now.After(*m.InvitationExpires)
}
