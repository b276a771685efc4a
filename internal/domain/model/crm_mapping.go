package model

import (
	"time"

	"github.com/google/uuid"
)

// CRMMapping links a local entity to its remote CRM object. The unique
// composite index enforces at most one row per
// (provider, local_entity_type, local_entity_id); a racing second insert is
// rejected by the constraint rather than by application locking.
type CRMMapping struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UniversalID      uuid.UUID `gorm:"column:universal_id;type:uuid;not null;index" json:"universal_id"`
	Provider         string    `gorm:"not null;size:50;uniqueIndex:idx_crm_mappings_local" json:"provider"`
	LocalEntityType  string    `gorm:"column:local_entity_type;not null;size:20;uniqueIndex:idx_crm_mappings_local" json:"local_entity_type"`
	LocalEntityID    string    `gorm:"column:local_entity_id;not null;size:64;uniqueIndex:idx_crm_mappings_local" json:"local_entity_id"`
	RemoteEntityType string    `gorm:"column:remote_entity_type;not null;size:20" json:"remote_entity_type"`
	RemoteEntityID   string    `gorm:"column:remote_entity_id;not null;size:100" json:"remote_entity_id"`
	LastSyncedAt     time.Time `gorm:"column:last_synced_at;not null" json:"last_synced_at"`
	CreatedAt        time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (CRMMapping) TableName() string {
	return "crm_mappings"
}
