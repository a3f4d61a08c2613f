package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvitationPending  = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationMismatch = errors.New("invitation is addressed to a different email")
)

// InvitationService bridges the user directory and the membership ledger:
// invitations reference an email until a matching user registers.
type InvitationService struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewInvitationService(db *gorm.DB, ttl time.Duration) *InvitationService {
	return &InvitationService{db: db, ttl: ttl}
}

// Invite creates a pending membership addressed to an email. At most one
// pending invitation may exist per (email, organization); a user already
// holding a membership cannot be re-invited.
func (s *InvitationService) Invite(orgID uuid.UUID, email, role string, inviterID uuid.UUID) (*models.Membership, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
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

	var pending models.Membership
	err := s.db.
		Where("organization_id = ? AND invited_email = ? AND status = ?", orgID, email, models.MembershipPending).
		First(&pending).Error
	if err == nil && !pending.InvitationExpired(time.Now()) {
		return nil, ErrInvitationPending
	}

	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err == nil {
		var existing models.Membership
		err := s.db.
			Where("organization_id = ? AND user_id = ? AND status = ?", orgID, user.ID, models.MembershipActive).
			First(&existing).Error
		if err == nil {
			return nil, ErrAlreadyMember
		}
	}

	inviterRef := inviterID
	expires := time.Now().Add(s.ttl)
	invitation := models.Membership{
		ID:                uuid.New(),
		OrganizationID:    orgID,
		InvitedEmail:      email,
		Role:              role,
		Status:            models.MembershipPending,
		InvitedBy:         &inviterRef,
		InvitationExpires: &expires,
	}
	if err := s.db.Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrInvitationPending
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return &invitation, nil
}

// Accept resolves a pending invitation into an active membership for the
// accepting user. Expired rows are treated as gone at read time; their
// stored status is left untouched.
func (s *InvitationService) Accept(invitationID uuid.UUID, user *models.User) (*models.Membership, error) {
	var invitation models.Membership
	err := s.db.
		Where("id = ? AND status = ?", invitationID, models.MembershipPending).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if invitation.InvitationExpired(time.Now()) {
		return nil, ErrInvitationExpired
	}
	if invitation.InvitedEmail != user.Email {
		return nil, ErrInvitationMismatch
	}

	userRef := user.ID
	err = s.db.Model(&invitation).Updates(map[string]interface{}{
		"user_id": userRef,
		"status":  models.MembershipActive,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	invitation.UserID = &userRef
	invitation.Status = models.MembershipActive
	return &invitation, nil
}

// Decline marks a pending invitation declined by its addressee.
func (s *InvitationService) Decline(invitationID uuid.UUID, email string) error {
	return s.resolve(invitationID, email, models.MembershipDeclined)
}

// Revoke withdraws a pending invitation. The caller's org role is checked
// upstream by the access-control layer.
func (s *InvitationService) Revoke(orgID, invitationID uuid.UUID) error {
	result := s.db.Model(&models.Membership{}).
		Where("id = ? AND organization_id = ? AND status = ?", invitationID, orgID, models.MembershipPending).
		Update("status", models.MembershipRevoked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (s *InvitationService) resolve(invitationID uuid.UUID, email, status string) error {
	var invitation models.Membership
	err := s.db.
		Where("id = ? AND status = ?", invitationID, models.MembershipPending).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		return err
	}

	if invitation.InvitationExpired(time.Now()) {
		return ErrInvitationExpired
	}
	if invitation.InvitedEmail != email {
		return ErrInvitationMismatch
	}

	return s.db.Model(&invitation).Update("status", status).Error
}

// ListPendingForEmail returns live pending invitations addressed to an
// email, with organization names joined in. Expired rows are filtered out.
func (s *InvitationService) ListPendingForEmail(email string) ([]dto.InvitationResponse, error) {
	var rows []struct {
		models.Membership
		OrgName string
	}

	err := s.db.Model(&models.Membership{}).
		Select("memberships.*, organizations.name AS org_name").
		Joins("JOIN organizations ON organizations.id = memberships.organization_id").
		Where("memberships.invited_email = ? AND memberships.status = ?", email, models.MembershipPending).
		Order("memberships.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]dto.InvitationResponse, 0, len(rows))
	for _, r := range rows {
		if r.InvitationExpired(now) {
			continue
		}
		result = append(result, dto.InvitationResponse{
			ID:               r.ID,
			OrganizationID:   r.OrganizationID,
			OrganizationName: r.OrgName,
			Email:            r.InvitedEmail,
			Role:             r.Role,
			Status:           r.Status,
			InvitedBy:        r.InvitedBy,
			ExpiresAt:        r.InvitationExpires,
			CreatedAt:        r.CreatedAt,
		})
	}
	return result, nil
}

// ProcessPendingForUser converts every live pending invitation for the
// email into an active membership. Called right after account creation;
// errors here must never fail the surrounding registration, so per-row
// failures are logged and skipped.
func (s *InvitationService) ProcessPendingForUser(userID uuid.UUID, email string) error {
	var invitations []models.Membership
	err := s.db.
		Where("invited_email = ? AND status = ?", email, models.MembershipPending).
		Find(&invitations).Error
	if err != nil {
		return fmt.Errorf("failed to load pending invitations: %w", err)
	}

	now := time.Now()
	userRef := userID
	for i := range invitations {
		inv := &invitations[i]
		if inv.InvitationExpired(now) {
			continue
		}
		err := s.db.Model(inv).Updates(map[string]interface{}{
			"user_id": userRef,
			"status":  models.MembershipActive,
		}).Error
		if err != nil {
			slog.Error("failed to convert invitation",
				"invitation_id", inv.ID, "org_id", inv.OrganizationID, "error", err)
			continue
		}
		slog.Info("invitation converted to membership",
			"invitation_id", inv.ID, "org_id", inv.OrganizationID, "user_id", userID)
	}
	return nil
}
