package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/model"
	"github.com/outreachly/crm-sync/internal/domain/repository"
	"gorm.io/gorm"
)

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) repository.LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) modelToEntity(m *model.Lead) *entity.Lead {
	if m == nil {
		return nil
	}
	return &entity.Lead{
		ID:           m.ID.String(),
		UserID:       m.UniversalID.String(),
		Name:         m.Name,
		Email:        m.Email,
		Organization: m.Organization,
		Role:         m.Role,
		Website:      m.Website,
		Phone:        m.Phone,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	leadUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	var lead model.Lead
	err = r.db.WithContext(ctx).Where("id = ?", leadUUID).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&lead), nil
}
