package model

import (
	"time"

	"github.com/google/uuid"
)

// Action mirrors the outreach action table owned by the outreach service.
// This subsystem only reads it.
type Action struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	LeadID    uuid.UUID  `gorm:"column:lead_id;type:uuid;not null;index" json:"lead_id"`
	Type      string     `gorm:"not null;size:20" json:"type"`
	Subject   string     `gorm:"size:500" json:"subject"`
	Body      string     `gorm:"type:text" json:"body"`
	SentAt    *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	Status    string     `gorm:"not null;size:20;index" json:"status"`
	Outcome   string     `gorm:"size:100" json:"outcome"`
	CreatedAt time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Action) TableName() string {
	return "actions"
}
