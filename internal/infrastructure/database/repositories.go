package database

import (
	"github.com/outreachly/crm-sync/internal/adapter/repository"
	domainRepo "github.com/outreachly/crm-sync/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Lead        domainRepo.LeadRepository
	Action      domainRepo.ActionRepository
	Integration domainRepo.IntegrationRepository
	Mapping     domainRepo.MappingRepository
	SyncLog     domainRepo.SyncLogRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Lead:        repository.NewLeadRepository(db),
		Action:      repository.NewActionRepository(db),
		Integration: repository.NewIntegrationRepository(db),
		Mapping:     repository.NewMappingRepository(db),
		SyncLog:     repository.NewSyncLogRepository(db, logger),
	}
}
