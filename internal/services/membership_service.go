package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember     = errors.New("user is already a member of this organization")
	ErrMemberNotFound    = errors.New("membership not found")
	ErrOwnerRoleChange   = errors.New("owner role changes require an ownership transfer")
	ErrCannotRemoveOwner = errors.New("the owner cannot be removed from the organization")
)

// MembershipService owns the user-to-organization relationship ledger.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

// AddMember creates an active membership. Concurrent adds for the same
// (org, user) pair are serialized by the storage uniqueness constraint;
// the loser surfaces as a conflict.
func (s *MembershipService) AddMember(orgID, userID uuid.UUID, role string) (*models.Membership, error) {
	if !models.ValidOrgRole(role) {
		return nil, ErrInvalidRole
	}
	if role == models.OrgRoleOwner {
		return nil, ErrOwnerRoleChange
	}

	var org models.Organization
	if err := s.db.First(&org, "id = ?", orgID).Error; err != nil {
		return nil, ErrOrgNotFound
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	var existing models.Membership
	if err := s.db.Where("organization_id = ? AND user_id = ?", orgID, userID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyMember
	}

	userRef := userID
	membership := models.Membership{
		ID:             uuid.New(),
		OrganizationID: orgID,
		UserID:         &userRef,
		InvitedEmail:   user.Email,
		Role:           role,
		Status:         models.MembershipActive,
	}
	if err := s.db.Create(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return &membership, nil
}

// ListMembers returns active memberships joined with user display fields.
func (s *MembershipService) ListMembers(orgID uuid.UUID) ([]dto.MemberResponse, error) {
	var rows []struct {
		models.Membership
		Email     string
		FirstName string
		LastName  string
	}

	err := s.db.Model(&models.Membership{}).
		Select("memberships.*, users.email, users.first_name, users.last_name").
		Joins("JOIN users ON users.id = memberships.user_id").
		Where("memberships.organization_id = ? AND memberships.status = ?", orgID, models.MembershipActive).
		Order("memberships.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]dto.MemberResponse, 0, len(rows))
	for _, r := range rows {
		u := models.User{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
		members = append(members, dto.MemberResponse{
			UserID:      *r.UserID,
			Email:       r.Email,
			DisplayName: u.DisplayName(),
			Role:        r.Role,
			Status:      r.Status,
			JoinedAt:    r.CreatedAt,
		})
	}
	return members, nil
}

// UpdateRole changes a member's role. Transitions to or from owner are
// rejected; ownership moves only through TransferOwnership, which also
// keeps manager-level actors away from owner assignments.
func (s *MembershipService) UpdateRole(orgID, userID uuid.UUID, newRole string) (*models.Membership, error) {
	if !models.ValidOrgRole(newRole) {
		return nil, ErrInvalidRole
	}

	var membership models.Membership
	err := s.db.
		Where("organization_id = ? AND user_id = ? AND status = ?", orgID, userID, models.MembershipActive).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if newRole == models.OrgRoleOwner || membership.Role == models.OrgRoleOwner {
		return nil, ErrOwnerRoleChange
	}

	if err := s.db.Model(&membership).Update("role", newRole).Error; err != nil {
		return nil, err
	}
	membership.Role = newRole
	return &membership, nil
}

// RemoveMember deletes a membership row. The owner's row is protected.
func (s *MembershipService) RemoveMember(orgID, userID uuid.UUID) error {
	var membership models.Membership
	err := s.db.
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if membership.Role == models.OrgRoleOwner {
		return ErrCannotRemoveOwner
	}

	return s.db.Delete(&membership).Error
}

// ListForUser returns the caller's active memberships with organization
// names joined in.
func (s *MembershipService) ListForUser(userID uuid.UUID) ([]dto.MembershipResponse, error) {
	var rows []struct {
		models.Membership
		OrgName string
	}

	err := s.db.Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS org_name").
		Joins("JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.user_id = ? AND memberships.status = ?", userID, models.MembershipActive).
		Order("memberships.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]dto.MembershipResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.MembershipResponse{
			OrganizationID:   r.OrganizationID,
			OrganizationName: r.OrgName,
			Role:             r.Role,
			Status:           r.Status,
			JoinedAt:         r.CreatedAt,
		})
	}
	return result, nil
}
