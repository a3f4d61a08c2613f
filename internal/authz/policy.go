package authz

import (
	"strings"

	"github.com/tapstack/venue-backend/internal/models"
)

// Operation names an org-scoped action subject to role gating.
type Operation string

const (
	OpViewOrganization   Operation = "view_organization"
	OpUpdateOrganization Operation = "update_organization"
	OpDeleteOrganization Operation = "delete_organization"
	OpViewMembers        Operation = "view_members"
	OpAddMember          Operation = "add_member"
	OpChangeMemberRole   Operation = "change_member_role"
	OpRemoveMember       Operation = "remove_member"
	OpInviteMember       Operation = "invite_member"
	OpRevokeInvitation   Operation = "revoke_invitation"
	OpTransferOwnership  Operation = "transfer_ownership"
	OpViewInventory      Operation = "view_inventory"
	OpManageInventory    Operation = "manage_inventory"
)

// policy is the static per-operation allow-list. Checked by ordinary
// comparison; there is deliberately no dynamic registration.
var policy = map[Operation][]string{
	OpViewOrganization:   {models.OrgRoleOwner, models.OrgRoleManager, models.OrgRoleStaff},
	OpUpdateOrganization: {models.OrgRoleOwner},
	OpDeleteOrganization: {models.OrgRoleOwner},
	OpViewMembers:        {models.OrgRoleOwner, models.OrgRoleManager, models.OrgRoleStaff},
	OpAddMember:          {models.OrgRoleOwner, models.OrgRoleManager},
	OpChangeMemberRole:   {models.OrgRoleOwner, models.OrgRoleManager},
	OpRemoveMember:       {models.OrgRoleOwner, models.OrgRoleManager},
	OpInviteMember:       {models.OrgRoleOwner, models.OrgRoleManager},
	OpRevokeInvitation:   {models.OrgRoleOwner, models.OrgRoleManager},
	OpTransferOwnership:  {models.OrgRoleOwner},
	OpViewInventory:      {models.OrgRoleOwner, models.OrgRoleManager, models.OrgRoleStaff},
	OpManageInventory:    {models.OrgRoleOwner, models.OrgRoleManager},
}

// RequiredRoles returns the roles that may perform op.
func RequiredRoles(op Operation) []string {
	return policy[op]
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role string) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// ForbiddenError is returned when a member's role is not in an operation's
// allow-list. The message names the sufficient roles; role names are not
// secret and this makes denials debuggable.
type ForbiddenError struct {
	Op       Operation
	Required []string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + string(e.Op) + " requires one of roles: " + strings.Join(e.Required, ", ")
}
