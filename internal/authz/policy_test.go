package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapstack/venue-backend/internal/models"
)

func TestOwnerAllowedEverything(t *testing.T) {
	for op := range policy {
		assert.True(t, Allowed(op, models.OrgRoleOwner), "owner should be allowed %s", op)
	}
}

func TestStaffReadOnly(t *testing.T) {
	allowed := []Operation{OpViewOrganization, OpViewMembers, OpViewInventory}
	for _, op := range allowed {
		assert.True(t, Allowed(op, models.OrgRoleStaff), "staff should be allowed %s", op)
	}

	denied := []Operation{
		OpUpdateOrganization, OpDeleteOrganization,
		OpAddMember, OpChangeMemberRole, OpRemoveMember,
		OpInviteMember, OpRevokeInvitation,
		OpTransferOwnership, OpManageInventory,
	}
	for _, op := range denied {
		assert.False(t, Allowed(op, models.OrgRoleStaff), "staff should be denied %s", op)
	}
}

func TestManagerCannotTouchOrgLifecycle(t *testing.T) {
	denied := []Operation{OpUpdateOrganization, OpDeleteOrganization, OpTransferOwnership}
	for _, op := range denied {
		assert.False(t, Allowed(op, models.OrgRoleManager), "manager should be denied %s", op)
	}

	assert.True(t, Allowed(OpAddMember, models.OrgRoleManager))
	assert.True(t, Allowed(OpInviteMember, models.OrgRoleManager))
	assert.True(t, Allowed(OpManageInventory, models.OrgRoleManager))
}

func TestUnknownRoleDenied(t *testing.T) {
	for op := range policy {
		assert.False(t, Allowed(op, "superuser"))
		assert.False(t, Allowed(op, ""))
	}
}

func TestRequiredRolesCoversEveryOperation(t *testing.T) {
	ops := []Operation{
		OpViewOrganization, OpUpdateOrganization, OpDeleteOrganization,
		OpViewMembers, OpAddMember, OpChangeMemberRole, OpRemoveMember,
		OpInviteMember, OpRevokeInvitation, OpTransferOwnership,
		OpViewInventory, OpManageInventory,
	}
	for _, op := range ops {
		require.NotEmpty(t, RequiredRoles(op), "no roles defined for %s", op)
	}
}

func TestForbiddenErrorNamesSufficientRoles(t *testing.T) {
	err := &ForbiddenError{Op: OpDeleteOrganization, Required: RequiredRoles(OpDeleteOrganization)}
	assert.Contains(t, err.Error(), "delete_organization")
	assert.Contains(t, err.Error(), models.OrgRoleOwner)
}
