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

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) repository.ActionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) modelToEntity(m *model.Action) *entity.Action {
	if m == nil {
		return nil
	}
	return &entity.Action{
		ID:      m.ID.String(),
		LeadID:  m.LeadID.String(),
		Type:    entity.ActionType(m.Type),
		Subject: m.Subject,
		Body:    m.Body,
		SentAt:  m.SentAt,
		Status:  m.Status,
		Outcome: m.Outcome,
	}
}

func (r *actionRepository) GetByID(ctx context.Context, id string) (*entity.Action, error) {
	actionUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	var action model.Action
	err = r.db.WithContext(ctx).Where("id = ?", actionUUID).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&action), nil
}

func (r *actionRepository) GetSentByLeadID(ctx context.Context, leadID string) ([]*entity.Action, error) {
	leadUUID, err := uuid.Parse(leadID)
	if err != nil {
		return nil, err
	}

	var actions []model.Action
	err = r.db.WithContext(ctx).
		Where("lead_id = ? AND status = ?", leadUUID, entity.ActionStatusSent).
		Order("sent_at ASC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Action, 0, len(actions))
	for i := range actions {
		result = append(result, r.modelToEntity(&actions[i]))
	}
	return result, nil
}
