package repository

import (
	"context"
	"errors"

	"github.com/outreachly/crm-sync/internal/domain/entity"
)

// ErrDuplicateMapping is returned by Create when a row for the same
// (provider, local_entity_type, local_entity_id) key already exists. The
// unique constraint, not application locking, settles concurrent sync races.
var ErrDuplicateMapping = errors.New("mapping already exists for entity")

type MappingRepository interface {
	// Get returns the mapping for the unique key, or nil when none exists.
	Get(ctx context.Context, providerTag string, entityType entity.LocalEntityType, entityID string) (*entity.CRMMapping, error)
	// GetByEntity returns all mappings for a local entity across providers.
	GetByEntity(ctx context.Context, entityType entity.LocalEntityType, entityID string) ([]*entity.CRMMapping, error)
	// Create inserts a new mapping row, returning ErrDuplicateMapping when
	// the unique key is already taken.
	Create(ctx context.Context, mapping *entity.CRMMapping) error
	// Touch refreshes last_synced_at on an existing row.
	Touch(ctx context.Context, id int64) error
}
