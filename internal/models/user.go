package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// System-level roles. A platform admin administers the user directory;
// it grants no privilege inside any organization.
const (
	SystemRoleAdmin = "admin"
	SystemRoleUser  = "user"
)

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password      string         `gorm:"size:255" json:"-"`
	FirstName     string         `gorm:"size:100" json:"first_name"`
	LastName      string         `gorm:"size:100" json:"last_name"`
	Phone         string         `gorm:"size:30" json:"phone,omitempty"`
	PictureURL    string         `gorm:"size:500" json:"picture_url,omitempty"`
	Role          string         `gorm:"size:20;default:'user'" json:"role"`
	Active        bool           `gorm:"default:true" json:"active"`
	EmailVerified bool           `gorm:"default:false" json:"email_verified"`
	GoogleUserID  *string        `gorm:"size:255;uniqueIndex" json:"-"`
	AuthProvider  string         `gorm:"size:50;default:'email'" json:"-"`
	VerifyToken   string         `gorm:"size:64" json:"-"`
	VerifyExpires *time.Time     `json:"-"`
	ResetToken    string         `gorm:"size:64" json:"-"`
	ResetExpires  *time.Time     `json:"-"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
