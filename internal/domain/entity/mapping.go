package entity

import "time"

// LocalEntityType identifies which kind of local entity a mapping row links.
type LocalEntityType string

const (
	LocalEntityLead   LocalEntityType = "lead"
	LocalEntityAction LocalEntityType = "action"
)

// CRMMapping links one locally-owned entity to one remote CRM object. At most
// one row may exist per (provider, local_entity_type, local_entity_id); that
// uniqueness is what makes re-sync idempotent.
type CRMMapping struct {
	ID               int64           `json:"id"`
	UserID           string          `json:"user_id"`
	Provider         string          `json:"provider"`
	LocalEntityType  LocalEntityType `json:"local_entity_type"`
	LocalEntityID    string          `json:"local_entity_id"`
	RemoteEntityType string          `json:"remote_entity_type"`
	RemoteEntityID   string          `json:"remote_entity_id"`
	LastSyncedAt     time.Time       `json:"last_synced_at"`
	CreatedAt        time.Time       `json:"created_at"`
}
