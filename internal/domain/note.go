package domain

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Note struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string     `json:"name" gorm:"not null"`
	Content    string     `json:"content" gorm:"not null"`
	QuoteID    *string    `json:"quoteId,omitempty"`
	UserID     uuid.UUID  `json:"userId" gorm:"type:uuid;not null;index"`
	Tags       []Tag      `json:"tags" gorm:"many2many:note_tags"`
	CategoryID *uuid.UUID `json:"categoryId" gorm:"type:uuid"`
	Category   *Category  `json:"category" gorm:"constraint:OnDelete:SET NULL"`
	Priority   Priority   `json:"priority" gorm:"not null;default:medium"`
	IsArchived bool       `json:"isArchived" gorm:"not null;default:false"`
	IsTrashed  bool       `json:"isTrashed" gorm:"not null;default:false"`
	ReminderAt *time.Time `json:"reminderAt" gorm:"index"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
