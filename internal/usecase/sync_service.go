package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/provider"
	"github.com/outreachly/crm-sync/internal/domain/repository"
	"go.uber.org/zap"
)

// ClientFactory yields an authenticated CRM client per (user, provider).
// Implemented by the infrastructure provider factory; substituted with a
// mock in tests.
type ClientFactory interface {
	ForUser(ctx context.Context, userID string, providerType provider.Type) (provider.CRMProvider, error)
}

// SyncService orchestrates one-way sync of leads and their outreach actions
// into connected CRM providers. Every public method returns a structured
// result; provider and repository failures never propagate as errors to the
// caller of the sync operations.
type SyncService struct {
	leads        repository.LeadRepository
	actions      repository.ActionRepository
	integrations repository.IntegrationRepository
	mappings     repository.MappingRepository
	syncLogs     repository.SyncLogRepository
	clients      ClientFactory
	logger       *zap.Logger
}

func NewSyncService(
	leads repository.LeadRepository,
	actions repository.ActionRepository,
	integrations repository.IntegrationRepository,
	mappings repository.MappingRepository,
	syncLogs repository.SyncLogRepository,
	clients ClientFactory,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		leads:        leads,
		actions:      actions,
		integrations: integrations,
		mappings:     mappings,
		syncLogs:     syncLogs,
		clients:      clients,
		logger:       logger,
	}
}

// SyncLeadToCRM pushes one lead into one provider: update when a mapping
// exists, adopt a remote record found by email, create otherwise. On success
// the lead's sent actions are fanned out as remote activities; their
// failures are logged independently and do not change the returned result.
func (s *SyncService) SyncLeadToCRM(ctx context.Context, userID, leadID string, providerType provider.Type) entity.SyncResult {
	operation := entity.SyncOperationCreate

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		s.logger.Error("Failed to load lead", zap.String("lead_id", leadID), zap.Error(err))
	}
	if lead == nil || lead.Email == "" || (userID != "" && lead.UserID != userID) {
		result := entity.FailedSync("Lead not found or has no email")
		s.logAttempt(ctx, userID, providerType, operation, entity.LocalEntityLead, leadID, result)
		return result
	}

	client, err := s.clients.ForUser(ctx, userID, providerType)
	if err != nil {
		result := entity.FailedSync(fmt.Sprintf("%s not connected", providerType))
		s.logAttempt(ctx, userID, providerType, operation, entity.LocalEntityLead, leadID, result)
		return result
	}

	contact := contactFromLead(lead)

	mapping, err := s.mappings.Get(ctx, string(providerType), entity.LocalEntityLead, leadID)
	if err != nil {
		result := entity.FailedSync("Failed to look up sync mapping")
		s.logger.Error("Mapping lookup failed", zap.String("lead_id", leadID), zap.Error(err))
		s.logAttempt(ctx, userID, providerType, operation, entity.LocalEntityLead, leadID, result)
		return result
	}

	var result entity.SyncResult
	switch {
	case mapping != nil:
		operation = entity.SyncOperationUpdate
		result = s.updateContact(ctx, client, mapping.RemoteEntityID, contact)
		if result.Success {
			if err := s.mappings.Touch(ctx, mapping.ID); err != nil {
				s.logger.Error("Failed to touch mapping", zap.Int64("mapping_id", mapping.ID), zap.Error(err))
			}
		}

	default:
		existing, findErr := client.FindContactByEmail(ctx, lead.Email)
		switch {
		case findErr != nil:
			result = entity.FailedSync(findErr.Error())

		case existing != nil:
			// A record created outside this system; adopt it instead of
			// duplicating.
			operation = entity.SyncOperationUpdate
			result = s.updateContact(ctx, client, existing.RemoteID, contact)

		default:
			remote, createErr := client.CreateContact(ctx, contact)
			if createErr != nil {
				result = entity.FailedSync(createErr.Error())
			} else {
				result = entity.SyncResult{Success: true, RemoteID: remote.ID, Operation: entity.SyncOperationCreate}
			}
		}

		if result.Success {
			s.insertMapping(ctx, userID, providerType, entity.LocalEntityLead, leadID, provider.RemoteTypeContact, result.RemoteID)
		}
	}
	result.Operation = operation
	if !result.Success {
		result.Operation = ""
	}

	s.logAttempt(ctx, userID, providerType, operation, entity.LocalEntityLead, leadID, result)

	if result.Success {
		s.fanOutActions(ctx, userID, leadID, providerType, result.RemoteID)
	}

	return result
}

func (s *SyncService) updateContact(ctx context.Context, client provider.CRMProvider, remoteID string, contact *provider.Contact) entity.SyncResult {
	remote, err := client.UpdateContact(ctx, remoteID, contact)
	if err != nil {
		return entity.FailedSync(err.Error())
	}
	return entity.SyncResult{Success: true, RemoteID: remote.ID, Operation: entity.SyncOperationUpdate}
}

// fanOutActions syncs every sent action of the lead as a remote activity.
// Each action's outcome is logged by SyncActivityToCRM; a failed action does
// not stop the remaining ones.
func (s *SyncService) fanOutActions(ctx context.Context, userID, leadID string, providerType provider.Type, remoteContactID string) {
	actions, err := s.actions.GetSentByLeadID(ctx, leadID)
	if err != nil {
		s.logger.Error("Failed to load sent actions for fan-out",
			zap.String("lead_id", leadID),
			zap.Error(err))
		return
	}

	for _, action := range actions {
		result := s.SyncActivityToCRM(ctx, userID, action.ID, providerType, remoteContactID)
		if !result.Success {
			s.logger.Warn("Activity fan-out failed",
				zap.String("action_id", action.ID),
				zap.String("provider", string(providerType)),
				zap.String("error", result.Error))
		}
	}
}

// SyncActivityToCRM pushes one sent action into one provider as an activity.
// An existing mapping short-circuits with operation "skip" and no outbound
// request, which makes the operation idempotent.
func (s *SyncService) SyncActivityToCRM(ctx context.Context, userID, actionID string, providerType provider.Type, remoteContactID string) entity.SyncResult {
	mapping, err := s.mappings.Get(ctx, string(providerType), entity.LocalEntityAction, actionID)
	if err != nil {
		result := entity.FailedSync("Failed to look up sync mapping")
		s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
		return result
	}
	if mapping != nil {
		// Already synced; the idempotence guard returns without logging a
		// new attempt because no attempt is made.
		return entity.SyncResult{Success: true, RemoteID: mapping.RemoteEntityID, Operation: entity.SyncOperationSkip}
	}

	action, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		s.logger.Error("Failed to load action", zap.String("action_id", actionID), zap.Error(err))
	}
	if action == nil {
		result := entity.FailedSync("Action not found")
		s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
		return result
	}
	if !action.Sent() {
		result := entity.FailedSync("Action has not been sent")
		s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
		return result
	}

	client, err := s.clients.ForUser(ctx, userID, providerType)
	if err != nil {
		result := entity.FailedSync(fmt.Sprintf("%s not connected", providerType))
		s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
		return result
	}

	remote, err := client.CreateActivity(ctx, activityFromAction(action, remoteContactID))
	if err != nil {
		result := entity.FailedSync(err.Error())
		s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
		return result
	}

	s.insertMapping(ctx, userID, providerType, entity.LocalEntityAction, actionID, provider.RemoteTypeActivity, remote.ID)

	result := entity.SyncResult{Success: true, RemoteID: remote.ID, Operation: entity.SyncOperationCreate}
	s.logAttempt(ctx, userID, providerType, entity.SyncOperationCreate, entity.LocalEntityAction, actionID, result)
	return result
}

// SyncLeadToAllCRMs pushes the lead into every connected CRM integration of
// the user. Provider outcomes are isolated: one provider's failure never
// prevents or alters another's sync.
func (s *SyncService) SyncLeadToAllCRMs(ctx context.Context, userID, leadID string) (map[string]entity.SyncResult, error) {
	integrations, err := s.integrations.GetConnectedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]entity.SyncResult)
	for _, integration := range integrations {
		providerType, ok := provider.FromIntegrationType(integration.Type)
		if !ok {
			continue
		}
		results[string(providerType)] = s.SyncLeadToCRM(ctx, userID, leadID, providerType)
	}
	return results, nil
}

// GetConnectedCRMs lists the provider tags the user currently has connected.
func (s *SyncService) GetConnectedCRMs(ctx context.Context, userID string) ([]string, error) {
	integrations, err := s.integrations.GetConnectedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	connected := make([]string, 0, len(integrations))
	for _, integration := range integrations {
		if providerType, ok := provider.FromIntegrationType(integration.Type); ok {
			connected = append(connected, string(providerType))
		}
	}
	return connected, nil
}

// GetSyncStatus reports, per known provider, whether the lead has been
// synced and when. Providers without a mapping row report synced false.
func (s *SyncService) GetSyncStatus(ctx context.Context, leadID string) (map[string]entity.ProviderSyncStatus, error) {
	mappings, err := s.mappings.GetByEntity(ctx, entity.LocalEntityLead, leadID)
	if err != nil {
		return nil, err
	}

	status := make(map[string]entity.ProviderSyncStatus, len(provider.All()))
	for _, providerType := range provider.All() {
		status[string(providerType)] = entity.ProviderSyncStatus{}
	}
	for _, mapping := range mappings {
		lastSynced := mapping.LastSyncedAt
		status[mapping.Provider] = entity.ProviderSyncStatus{
			Synced:       true,
			LastSyncedAt: &lastSynced,
		}
	}
	return status, nil
}

// insertMapping records the local-to-remote link after a successful first
// sync. A concurrent sync may have inserted the row already; the unique-key
// rejection is logged and swallowed, keeping the invariant without failing
// the sync that lost the race.
func (s *SyncService) insertMapping(ctx context.Context, userID string, providerType provider.Type, entityType entity.LocalEntityType, entityID, remoteType, remoteID string) {
	err := s.mappings.Create(ctx, &entity.CRMMapping{
		UserID:           userID,
		Provider:         string(providerType),
		LocalEntityType:  entityType,
		LocalEntityID:    entityID,
		RemoteEntityType: remoteType,
		RemoteEntityID:   remoteID,
		LastSyncedAt:     time.Now(),
	})
	if err == nil {
		return
	}
	if errors.Is(err, repository.ErrDuplicateMapping) {
		s.logger.Warn("Concurrent sync already mapped entity",
			zap.String("provider", string(providerType)),
			zap.String("entity_type", string(entityType)),
			zap.String("entity_id", entityID))
		return
	}
	s.logger.Error("Failed to insert mapping",
		zap.String("provider", string(providerType)),
		zap.String("entity_type", string(entityType)),
		zap.String("entity_id", entityID),
		zap.Error(err))
}

// logAttempt appends one audit row. Audit failures are logged but never fail
// the sync they describe.
func (s *SyncService) logAttempt(ctx context.Context, userID string, providerType provider.Type, operation string, entityType entity.LocalEntityType, entityID string, result entity.SyncResult) {
	err := s.syncLogs.Create(ctx, &entity.CRMSyncLog{
		UserID:       userID,
		Provider:     string(providerType),
		Operation:    operation,
		Direction:    entity.SyncDirectionOutbound,
		EntityType:   entityType,
		EntityID:     entityID,
		Success:      result.Success,
		ErrorMessage: result.Error,
	})
	if err != nil {
		s.logger.Error("Failed to write sync log",
			zap.String("provider", string(providerType)),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func contactFromLead(lead *entity.Lead) *provider.Contact {
	first, last := lead.SplitName()
	return &provider.Contact{
		Email:     lead.Email,
		FirstName: first,
		LastName:  last,
		Company:   lead.Organization,
		Phone:     lead.Phone,
		Title:     lead.Role,
		Website:   lead.Website,
	}
}

func activityFromAction(action *entity.Action, remoteContactID string) *provider.Activity {
	timestamp := time.Now()
	if action.SentAt != nil {
		timestamp = *action.SentAt
	}
	return &provider.Activity{
		ContactID: remoteContactID,
		Type:      string(action.Type),
		Subject:   action.Subject,
		Body:      action.Body,
		Timestamp: timestamp,
		Outcome:   action.Outcome,
		Direction: string(entity.SyncDirectionOutbound),
	}
}
