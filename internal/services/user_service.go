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
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidRole    = errors.New("invalid role")
	ErrOwnsOrgs       = errors.New("user still owns organizations")
	ErrProviderLinked = errors.New("account already linked to provider google")
)

// UserService owns the user directory.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateDirect inserts a prepared user row, translating duplicate-email
// uniqueness violations into a conflict.
func (s *UserService) CreateDirect(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *UserService) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "google_user_id = ?", googleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) List(limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	s.db.Model(&models.User{}).Count(&total)
	if err := s.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) UpdateProfile(id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.PictureURL != nil {
		updates["picture_url"] = *req.PictureURL
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// UpdateRole changes the system-level role. Callers must gate this behind
// the platform-admin check.
func (s *UserService) UpdateRole(id uuid.UUID, role string) (*models.User, error) {
	if role != models.SystemRoleAdmin && role != models.SystemRoleUser {
		return nil, ErrInvalidRole
	}

	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *UserService) UpdateActiveStatus(id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("active", active).Error; err != nil {
		return nil, err
	}
	user.Active = active
	return user, nil
}

// LinkGoogleIdentity attaches a Google subject to an existing account.
// Linking fails with a conflict when the account already carries a
// different Google subject.
func (s *UserService) LinkGoogleIdentity(user *models.User, googleID, pictureURL string) (*models.User, error) {
	if user.GoogleUserID != nil && *user.GoogleUserID != googleID {
		return nil, ErrProviderLinked
	}
	if user.GoogleUserID != nil {
		return user, nil
	}

	updates := map[string]interface{}{
		"google_user_id": googleID,
		"auth_provider":  "google",
		"email_verified": true,
	}
	if pictureURL != "" && user.PictureURL == "" {
		updates["picture_url"] = pictureURL
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to link google identity: %w", err)
	}
	user.GoogleUserID = &googleID
	user.AuthProvider = "google"
	user.EmailVerified = true
	return user, nil
}

// Delete removes a user from the directory. A user who still owns an
// organization cannot be deleted; ownership must be transferred or the
// organization deleted first. Memberships, refresh tokens, and the user's
// subscription go in the same transaction.
func (s *UserService) Delete(id uuid.UUID) error {
	user, err := s.FindByID(id)
	if err != nil {
		return err
	}

	var ownedOrgs int64
	s.db.Model(&models.Organization{}).Where("owner_id = ?", id).Count(&ownedOrgs)
	if ownedOrgs > 0 {
		return ErrOwnsOrgs
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}
