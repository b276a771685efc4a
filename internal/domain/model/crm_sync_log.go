package model

import (
	"time"

	"github.com/google/uuid"
)

// CRMSyncLog is the append-only audit trail of sync attempts. Rows are
// inserted on every attempt, success or failure, and never updated.
type CRMSyncLog struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UniversalID  uuid.UUID `gorm:"column:universal_id;type:uuid;not null;index" json:"universal_id"`
	Provider     string    `gorm:"not null;size:50;index:idx_crm_sync_logs_provider_entity" json:"provider"`
	Operation    string    `gorm:"not null;size:20" json:"operation"`
	Direction    string    `gorm:"not null;size:20;default:'outbound'" json:"direction"`
	EntityType   string    `gorm:"column:entity_type;not null;size:20;index:idx_crm_sync_logs_provider_entity" json:"entity_type"`
	EntityID     string    `gorm:"column:entity_id;not null;size:64;index:idx_crm_sync_logs_provider_entity" json:"entity_id"`
	Success      bool      `gorm:"not null" json:"success"`
	ErrorMessage string    `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CRMSyncLog) TableName() string {
	return "crm_sync_logs"
}
