package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email            string         `json:"email" gorm:"uniqueIndex;not null"`
	FirstName        string         `json:"firstName" gorm:"not null"`
	LastName         string         `json:"lastName" gorm:"not null"`
	PasswordHash     string         `json:"-" gorm:"not null"`
	RefreshTokenHash *string        `json:"-"`
	Profile          datatypes.JSON `json:"profile,omitempty"`
	Notes            []Note         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}
