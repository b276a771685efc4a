package entity

import "time"

// SyncDirection records which way a sync attempt flowed. This subsystem only
// pushes local changes out.
type SyncDirection string

const SyncDirectionOutbound SyncDirection = "outbound"

// CRMSyncLog is one append-only audit record of a sync attempt. Rows are
// never mutated or deleted.
type CRMSyncLog struct {
	ID           int64           `json:"id"`
	UserID       string          `json:"user_id"`
	Provider     string          `json:"provider"`
	Operation    string          `json:"operation"`
	Direction    SyncDirection   `json:"direction"`
	EntityType   LocalEntityType `json:"entity_type"`
	EntityID     string          `json:"entity_id"`
	Success      bool            `json:"success"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}
