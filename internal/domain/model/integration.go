package model

import (
	"time"

	"github.com/google/uuid"
)

// Integration stores one (user, provider) CRM connection. Credentials are an
// AES-GCM sealed blob; the plaintext never touches this table.
type Integration struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UniversalID   uuid.UUID `gorm:"column:universal_id;type:uuid;not null;index:idx_integrations_user_type,unique" json:"universal_id"`
	Type          string    `gorm:"not null;size:50;index:idx_integrations_user_type,unique" json:"type"`
	Status        string    `gorm:"not null;size:20;default:'connected';index" json:"status"`
	Credentials   string    `gorm:"type:text;not null" json:"-"`
	CredentialsIV string    `gorm:"column:credentials_iv;size:64;not null" json:"-"`
	CreatedAt     time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Integration) TableName() string {
	return "integrations"
}
