package repository

import (
	"context"

	"github.com/outreachly/crm-sync/internal/domain/entity"
)

type SyncLogRepository interface {
	// Create appends one audit row. The log is append-only; there are no
	// update or delete operations.
	Create(ctx context.Context, log *entity.CRMSyncLog) error
	// GetByEntity returns the attempt history for one local entity, newest
	// first.
	GetByEntity(ctx context.Context, entityType entity.LocalEntityType, entityID string, limit int) ([]*entity.CRMSyncLog, error)
}
