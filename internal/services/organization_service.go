package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrgNotFound       = errors.New("organization not found")
	ErrNoEligibleSub     = errors.New("an active or trial subscription is required")
	ErrNewOwnerNotMember = errors.New("new owner is not an active member of this organization")
)

// OrganizationService owns the organization registry.
type OrganizationService struct {
	db *gorm.DB
}

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// Create inserts the organization and the owner's membership row in one
// transaction so a half-created organization is never observable.
func (s *OrganizationService) Create(ownerID uuid.UUID, req *dto.CreateOrganizationRequest) (*models.Organization, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}

	var sub models.Subscription
	err := s.db.
		Where("user_id = ? AND status IN ?", ownerID, []string{models.SubscriptionTrial, models.SubscriptionActive}).
		First(&sub).Error
	if err != nil {
		return nil, ErrNoEligibleSub
	}

	currency := req.DefaultCurrency
	if currency == "" {
		currency = "USD"
	}
	settings, err := json.Marshal(models.OrganizationSettings{DefaultCurrency: currency})
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}

	org := models.Organization{
		ID:             uuid.New(),
		Name:           req.Name,
		OwnerID:        ownerID,
		SubscriptionID: &sub.ID,
		Settings:       datatypes.JSON(settings),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		ownerRef := ownerID
		membership := models.Membership{
			ID:             uuid.New(),
			OrganizationID: org.ID,
			UserID:         &ownerRef,
			Role:           models.OrgRoleOwner,
			Status:         models.MembershipActive,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return &org, nil
}

func (s *OrganizationService) FindByID(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := s.db.First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (s *OrganizationService) Update(id uuid.UUID, req *dto.UpdateOrganizationRequest) (*models.Organization, error) {
	org, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
		}
		updates["name"] = *req.Name
	}
	if req.DefaultCurrency != nil {
		settings, err := json.Marshal(models.OrganizationSettings{DefaultCurrency: *req.DefaultCurrency})
		if err != nil {
			return nil, fmt.Errorf("failed to encode settings: %w", err)
		}
		updates["settings"] = datatypes.JSON(settings)
	}
	if len(updates) == 0 {
		return org, nil
	}

	if err := s.db.Model(org).Updates(updates).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// Delete removes the organization together with every membership row and
// all inventory scoped to it.
func (s *OrganizationService) Delete(id uuid.UUID) error {
	org, err := s.FindByID(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(org).Error
	})
}

// TransferOwnership atomically swaps the owner and the new owner's roles
// and repoints the organization's owner reference. The single-owner
// invariant holds before and after; there is no intermediate state with
// zero or two owners visible outside the transaction.
func (s *OrganizationService) TransferOwnership(orgID, currentOwnerID, newOwnerID uuid.UUID) error {
	if currentOwnerID == newOwnerID {
		return fmt.Errorf("%w: new owner must differ from current owner", ErrInvalidInput)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var target models.Membership
		err := tx.
			Where("organization_id = ? AND user_id = ? AND status = ?", orgID, newOwnerID, models.MembershipActive).
			First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNewOwnerNotMember
			}
			return err
		}

		if err := tx.Model(&models.Membership{}).
			Where("organization_id = ? AND user_id = ?", orgID, currentOwnerID).
			Update("role", models.OrgRoleManager).Error; err != nil {
			return err
		}
		if err := tx.Model(&target).Update("role", models.OrgRoleOwner).Error; err != nil {
			return err
		}
		return tx.Model(&models.Organization{}).
			Where("id = ?", orgID).
			Update("owner_id", newOwnerID).Error
	})
}
