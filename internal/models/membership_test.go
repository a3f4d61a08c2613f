package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidOrgRole(t *testing.T) {
	assert.True(t, ValidOrgRole(OrgRoleOwner))
	assert.True(t, ValidOrgRole(OrgRoleManager))
	assert.True(t, ValidOrgRole(OrgRoleStaff))
	assert.False(t, ValidOrgRole("admin"))
	assert.False(t, ValidOrgRole("OWNER"))
	assert.False(t, ValidOrgRole(""))
}

func TestInvitationExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := Membership{Status: MembershipPending, InvitationExpires: &past}
	assert.True(t, expired.InvitationExpired(now))

	live := Membership{Status: MembershipPending, InvitationExpires: &future}
	assert.False(t, live.InvitationExpired(now))

	// an active membership never expires, whatever the timestamp says
	active := Membership{Status: MembershipActive, InvitationExpires: &past}
	assert.False(t, active.InvitationExpired(now))

	noExpiry := Membership{Status: MembershipPending}
	assert.False(t, noExpiry.InvitationExpired(now))
}
