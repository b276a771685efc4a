package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outreachly/crm-sync/internal/config"
	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/provider"
	"github.com/outreachly/crm-sync/internal/domain/repository"
	"github.com/outreachly/crm-sync/internal/infrastructure/crypto"
	"github.com/outreachly/crm-sync/internal/infrastructure/oauth"
	hubspotClient "github.com/outreachly/crm-sync/internal/infrastructure/provider/hubspot"
	pipedriveClient "github.com/outreachly/crm-sync/internal/infrastructure/provider/pipedrive"
	salesforceClient "github.com/outreachly/crm-sync/internal/infrastructure/provider/salesforce"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Sentinel errors the sync layer converts into SyncResult failures.
var (
	ErrNotConnected  = errors.New("provider not connected")
	ErrRefreshFailed = errors.New("credential refresh failed")
)

// Default token endpoints per provider; config may override for tests.
var defaultTokenURLs = map[provider.Type]string{
	provider.TypeHubSpot:    "https://api.hubapi.com/oauth/v1/token",
	provider.TypeSalesforce: "https://login.salesforce.com/services/oauth2/token",
	provider.TypePipedrive:  "https://oauth.pipedrive.com/oauth/token",
}

// Factory builds authenticated CRM clients per (user, provider). It owns the
// credential lifecycle: decrypt at this boundary, refresh expired tokens,
// persist the re-sealed blob before any business call goes out.
type Factory struct {
	config       *config.Config
	integrations repository.IntegrationRepository
	encryption   crypto.EncryptionService
	oauthClient  *oauth.Client
	logger       *zap.Logger

	// refreshGroup serializes refreshes per (user, provider) so two
	// concurrent expired-token observations issue one refresh request.
	refreshGroup singleflight.Group
}

// NewFactory creates a new provider factory
func NewFactory(
	cfg *config.Config,
	integrations repository.IntegrationRepository,
	encryption crypto.EncryptionService,
	oauthClient *oauth.Client,
	logger *zap.Logger,
) *Factory {
	return &Factory{
		config:       cfg,
		integrations: integrations,
		encryption:   encryption,
		oauthClient:  oauthClient,
		logger:       logger,
	}
}

// ForUser returns an authenticated client for the user's connected
// integration, refreshing the access token first when it has expired.
// Returns ErrNotConnected when no connected integration exists and
// ErrRefreshFailed when the token could not be renewed.
func (f *Factory) ForUser(ctx context.Context, userID string, providerType provider.Type) (provider.CRMProvider, error) {
	if !providerType.Valid() {
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}

	integration, err := f.integrations.GetConnected(ctx, userID, providerType.IntegrationType())
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, ErrNotConnected
	}

	creds, err := f.decrypt(integration)
	if err != nil {
		f.logger.Error("Failed to open credential blob",
			zap.String("user_id", userID),
			zap.String("provider", string(providerType)),
			zap.Error(err))
		return nil, ErrRefreshFailed
	}

	if creds.Expired(time.Now()) {
		creds, err = f.refresh(ctx, userID, providerType, integration, creds)
		if err != nil {
			return nil, err
		}
	}

	return f.buildClient(providerType, creds), nil
}

func (f *Factory) decrypt(integration *entity.Integration) (*entity.CRMCredentials, error) {
	plaintext, err := f.encryption.Decrypt(integration.Credentials, integration.CredentialsIV)
	if err != nil {
		return nil, err
	}
	return entity.ParseCRMCredentials(plaintext)
}

// refresh renews the token grant, serialized per (user, provider). The loser
// of a concurrent race reuses the winner's result instead of issuing a
// second refresh that could invalidate the first under rotating
// refresh-token policies.
func (f *Factory) refresh(ctx context.Context, userID string, providerType provider.Type, integration *entity.Integration, creds *entity.CRMCredentials) (*entity.CRMCredentials, error) {
	key := userID + ":" + string(providerType)

	result, err, _ := f.refreshGroup.Do(key, func() (interface{}, error) {
		// A previous holder of this key may have already persisted fresh
		// credentials; re-read before going to the token endpoint.
		current, err := f.integrations.GetConnected(ctx, userID, providerType.IntegrationType())
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrNotConnected
		}
		latest, err := f.decrypt(current)
		if err == nil && !latest.Expired(time.Now()) {
			return latest, nil
		}

		f.logger.Info("Refreshing expired CRM credentials",
			zap.String("user_id", userID),
			zap.String("provider", string(providerType)))

		token, err := f.oauthClient.Refresh(ctx, f.endpoint(providerType), creds.RefreshToken)
		if err != nil {
			var tokenErr *oauth.TokenError
			if errors.As(err, &tokenErr) && tokenErr.Permanent() {
				// The grant is revoked or invalid; mark the integration so
				// the user is prompted to reconnect instead of failing
				// silently on every sync.
				f.logger.Warn("CRM grant permanently rejected, disconnecting integration",
					zap.String("user_id", userID),
					zap.String("provider", string(providerType)),
					zap.Int("status_code", tokenErr.StatusCode))
				if updateErr := f.integrations.UpdateStatus(ctx, integration.ID, entity.IntegrationStatusDisconnected); updateErr != nil {
					f.logger.Error("Failed to disconnect integration", zap.Error(updateErr))
				}
			}
			return nil, ErrRefreshFailed
		}

		now := time.Now()
		fresh := &entity.CRMCredentials{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			ExpiresAt:    token.ExpiresAt(now),
			InstanceURL:  creds.InstanceURL,
		}
		if token.InstanceURL != "" {
			fresh.InstanceURL = token.InstanceURL
		}

		if err := f.persist(ctx, integration.ID, fresh); err != nil {
			f.logger.Error("Failed to persist refreshed credentials",
				zap.String("user_id", userID),
				zap.String("provider", string(providerType)),
				zap.Error(err))
			return nil, ErrRefreshFailed
		}

		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.CRMCredentials), nil
}

func (f *Factory) persist(ctx context.Context, integrationID int64, creds *entity.CRMCredentials) error {
	blob, err := creds.Marshal()
	if err != nil {
		return err
	}
	ciphertext, iv, err := f.encryption.Encrypt(blob)
	if err != nil {
		return err
	}
	return f.integrations.UpdateCredentials(ctx, integrationID, ciphertext, iv)
}

func (f *Factory) providerConfig(providerType provider.Type) config.ProviderConfig {
	switch providerType {
	case provider.TypeHubSpot:
		return f.config.Service.HubSpot
	case provider.TypeSalesforce:
		return f.config.Service.Salesforce
	case provider.TypePipedrive:
		return f.config.Service.Pipedrive
	default:
		return config.ProviderConfig{}
	}
}

func (f *Factory) endpoint(providerType provider.Type) oauth.Endpoint {
	cfg := f.providerConfig(providerType)
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURLs[providerType]
	}
	return oauth.Endpoint{
		TokenURL:     tokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURI:  cfg.RedirectURI,
	}
}

func (f *Factory) buildClient(providerType provider.Type, creds *entity.CRMCredentials) provider.CRMProvider {
	cfg := f.providerConfig(providerType)
	switch providerType {
	case provider.TypeSalesforce:
		instanceURL := creds.InstanceURL
		if instanceURL == "" {
			instanceURL = cfg.APIBaseURL
		}
		return salesforceClient.NewClient(creds.AccessToken, instanceURL, f.logger)
	case provider.TypePipedrive:
		return pipedriveClient.NewClient(creds.AccessToken, cfg.APIBaseURL, f.logger)
	default:
		return hubspotClient.NewClient(creds.AccessToken, cfg.APIBaseURL, f.logger)
	}
}
