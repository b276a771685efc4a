package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/model"
	"github.com/outreachly/crm-sync/internal/domain/repository"
	"gorm.io/gorm"
)

type mappingRepository struct {
	db *gorm.DB
}

func NewMappingRepository(db *gorm.DB) repository.MappingRepository {
	return &mappingRepository{db: db}
}

func (r *mappingRepository) modelToEntity(m *model.CRMMapping) *entity.CRMMapping {
	if m == nil {
		return nil
	}
	return &entity.CRMMapping{
		ID:               m.ID,
		UserID:           m.UniversalID.String(),
		Provider:         m.Provider,
		LocalEntityType:  entity.LocalEntityType(m.LocalEntityType),
		LocalEntityID:    m.LocalEntityID,
		RemoteEntityType: m.RemoteEntityType,
		RemoteEntityID:   m.RemoteEntityID,
		LastSyncedAt:     m.LastSyncedAt,
		CreatedAt:        m.CreatedAt,
	}
}

func (r *mappingRepository) entityToModel(e *entity.CRMMapping) (*model.CRMMapping, error) {
	if e == nil {
		return nil, nil
	}

	userUUID, err := uuid.Parse(e.UserID)
	if err != nil {
		return nil, err
	}

	return &model.CRMMapping{
		ID:               e.ID,
		UniversalID:      userUUID,
		Provider:         e.Provider,
		LocalEntityType:  string(e.LocalEntityType),
		LocalEntityID:    e.LocalEntityID,
		RemoteEntityType: e.RemoteEntityType,
		RemoteEntityID:   e.RemoteEntityID,
		LastSyncedAt:     e.LastSyncedAt,
		CreatedAt:        e.CreatedAt,
	}, nil
}

func (r *mappingRepository) Get(ctx context.Context, providerTag string, entityType entity.LocalEntityType, entityID string) (*entity.CRMMapping, error) {
	var mapping model.CRMMapping
	err := r.db.WithContext(ctx).
		Where("provider = ? AND local_entity_type = ? AND local_entity_id = ?", providerTag, string(entityType), entityID).
		First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&mapping), nil
}

func (r *mappingRepository) GetByEntity(ctx context.Context, entityType entity.LocalEntityType, entityID string) ([]*entity.CRMMapping, error) {
	var mappings []model.CRMMapping
	err := r.db.WithContext(ctx).
		Where("local_entity_type = ? AND local_entity_id = ?", string(entityType), entityID).
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.CRMMapping, 0, len(mappings))
	for i := range mappings {
		result = append(result, r.modelToEntity(&mappings[i]))
	}
	return result, nil
}

func (r *mappingRepository) Create(ctx context.Context, mapping *entity.CRMMapping) error {
	modelMapping, err := r.entityToModel(mapping)
	if err != nil {
		return err
	}
	if modelMapping.LastSyncedAt.IsZero() {
		modelMapping.LastSyncedAt = time.Now()
	}

	err = r.db.WithContext(ctx).Create(modelMapping).Error
	if err != nil {
		// Relies on TranslateError in the gorm config to surface the
		// unique-key violation uniformly across drivers.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repository.ErrDuplicateMapping
		}
		return err
	}

	mapping.ID = modelMapping.ID
	mapping.LastSyncedAt = modelMapping.LastSyncedAt
	return nil
}

func (r *mappingRepository) Touch(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.CRMMapping{}).
		Where("id = ?", id).
		Update("last_synced_at", time.Now()).Error
}
