package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/gorm"
)

// ErrNotMember means the caller has no active membership in the target
// organization. Non-members are denied, not treated as anonymous.
var ErrNotMember = errors.New("not a member of this organization")

// Authorizer resolves a caller's membership and checks it against the
// static operation policy.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// Authorize returns the caller's active membership if its role is in the
// allow-list for op. It returns ErrNotMember when no active row exists and
// a *ForbiddenError when the role is insufficient.
func (a *Authorizer) Authorize(userID, orgID uuid.UUID, op Operation) (*models.Membership, error) {
	var membership models.Membership
	err := a.db.
		Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, models.MembershipActive).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}

	if !Allowed(op, membership.Role) {
		return nil, &ForbiddenError{Op: op, Required: RequiredRoles(op)}
	}
	return &membership, nil
}
