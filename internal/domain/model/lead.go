package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead mirrors the lead table owned by the outreach service. This subsystem
// only reads it.
type Lead struct {
	ID           uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	UniversalID  uuid.UUID `gorm:"column:universal_id;type:uuid;not null;index" json:"universal_id"`
	Name         string    `gorm:"size:255" json:"name"`
	Email        string    `gorm:"size:255;index" json:"email"`
	Organization string    `gorm:"size:255" json:"organization"`
	Role         string    `gorm:"size:255" json:"role"`
	Website      string    `gorm:"size:255" json:"website"`
	Phone        string    `gorm:"size:50" json:"phone"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Lead) TableName() string {
	return "leads"
}
