package repository

import (
	"context"

	"github.com/outreachly/crm-sync/internal/domain/entity"
)

type IntegrationRepository interface {
	// GetConnected returns the user's connected integration of the given
	// type, or nil when none exists.
	GetConnected(ctx context.Context, userID, integrationType string) (*entity.Integration, error)
	// GetConnectedByUser returns every connected integration for the user.
	GetConnectedByUser(ctx context.Context, userID string) ([]*entity.Integration, error)
	// UpdateCredentials replaces the sealed credential blob in place.
	UpdateCredentials(ctx context.Context, id int64, ciphertext, iv string) error
	// UpdateStatus transitions the integration's lifecycle state.
	UpdateStatus(ctx context.Context, id int64, status entity.IntegrationStatus) error
}
