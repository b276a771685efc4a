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

type integrationRepository struct {
	db *gorm.DB
}

func NewIntegrationRepository(db *gorm.DB) repository.IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) modelToEntity(m *model.Integration) *entity.Integration {
	if m == nil {
		return nil
	}
	return &entity.Integration{
		ID:            m.ID,
		UserID:        m.UniversalID.String(),
		Type:          m.Type,
		Status:        entity.IntegrationStatus(m.Status),
		Credentials:   m.Credentials,
		CredentialsIV: m.CredentialsIV,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *integrationRepository) GetConnected(ctx context.Context, userID, integrationType string) (*entity.Integration, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var integration model.Integration
	err = r.db.WithContext(ctx).
		Where("universal_id = ? AND type = ? AND status = ?", userUUID, integrationType, string(entity.IntegrationStatusConnected)).
		First(&integration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&integration), nil
}

func (r *integrationRepository) GetConnectedByUser(ctx context.Context, userID string) ([]*entity.Integration, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var integrations []model.Integration
	err = r.db.WithContext(ctx).
		Where("universal_id = ? AND status = ?", userUUID, string(entity.IntegrationStatusConnected)).
		Order("type ASC").
		Find(&integrations).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Integration, 0, len(integrations))
	for i := range integrations {
		result = append(result, r.modelToEntity(&integrations[i]))
	}
	return result, nil
}

func (r *integrationRepository) UpdateCredentials(ctx context.Context, id int64, ciphertext, iv string) error {
	return r.db.WithContext(ctx).
		Model(&model.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credentials":    ciphertext,
			"credentials_iv": iv,
			"updated_at":     time.Now(),
		}).Error
}

func (r *integrationRepository) UpdateStatus(ctx context.Context, id int64, status entity.IntegrationStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Integration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}
