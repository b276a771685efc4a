package repository

import (
	"context"

	"github.com/outreachly/crm-sync/internal/domain/entity"
)

type LeadRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
}
