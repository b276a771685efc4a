package repository

import (
	"context"

	"github.com/outreachly/crm-sync/internal/domain/entity"
)

type ActionRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Action, error)
	// GetSentByLeadID returns the lead's actions with status "sent",
	// oldest first.
	GetSentByLeadID(ctx context.Context, leadID string) ([]*entity.Action, error)
}
