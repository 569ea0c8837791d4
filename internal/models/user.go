package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account holder of the mobile application.
// PasswordHash never leaves the server: it is excluded from JSON. Phone is
// optional but unique once set.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `gorm:"uniqueIndex:idx_users_phone,where:phone <> ''" json:"phone"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	Avatar       string    `gorm:"type:text" json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID for the user if none is set and defaults the role.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return
}

// IsAdmin reports whether the user may use moderator endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
