package dto

import (
	"github.com/tapstack/venue-backend/internal/models"
)

type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	PictureURL *string `json:"picture_url,omitempty"`
}

type AdminCreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role,omitempty"`
}

type AdminUpdateUserRequest struct {
	Role   *string `json:"role,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// NewUserResponse projects a User for outward serialization. Credential
// hashes and verification/reset tokens never leave the service, for any
// caller.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		PictureURL:    u.PictureURL,
		Role:          u.Role,
		Active:        u.Active,
		EmailVerified: u.EmailVerified,
		IsGoogleUser:  u.AuthProvider == "google",
	}
}
