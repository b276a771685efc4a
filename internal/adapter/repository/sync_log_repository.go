package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/model"
	"github.com/outreachly/crm-sync/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type syncLogRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSyncLogRepository(db *gorm.DB, logger *zap.Logger) repository.SyncLogRepository {
	return &syncLogRepository{db: db, logger: logger}
}

func (r *syncLogRepository) modelToEntity(m *model.CRMSyncLog) *entity.CRMSyncLog {
	if m == nil {
		return nil
	}
	return &entity.CRMSyncLog{
		ID:           m.ID,
		UserID:       m.UniversalID.String(),
		Provider:     m.Provider,
		Operation:    m.Operation,
		Direction:    entity.SyncDirection(m.Direction),
		EntityType:   entity.LocalEntityType(m.EntityType),
		EntityID:     m.EntityID,
		Success:      m.Success,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *syncLogRepository) Create(ctx context.Context, log *entity.CRMSyncLog) error {
	userUUID, err := uuid.Parse(log.UserID)
	if err != nil {
		return err
	}

	direction := log.Direction
	if direction == "" {
		direction = entity.SyncDirectionOutbound
	}

	row := &model.CRMSyncLog{
		UniversalID:  userUUID,
		Provider:     log.Provider,
		Operation:    log.Operation,
		Direction:    string(direction),
		EntityType:   string(log.EntityType),
		EntityID:     log.EntityID,
		Success:      log.Success,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}

	log.ID = row.ID
	log.CreatedAt = row.CreatedAt
	return nil
}

func (r *syncLogRepository) GetByEntity(ctx context.Context, entityType entity.LocalEntityType, entityID string, limit int) ([]*entity.CRMSyncLog, error) {
	if limit < 1 {
		limit = 50
	} else if limit > 500 {
		limit = 500
	}

	var rows []model.CRMSyncLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.CRMSyncLog, 0, len(rows))
	for i := range rows {
		result = append(result, r.modelToEntity(&rows[i]))
	}
	return result, nil
}
