package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/outreachly/crm-sync/internal/domain/entity"
	"github.com/outreachly/crm-sync/internal/domain/provider"
	"github.com/outreachly/crm-sync/internal/middleware/auth"
	"github.com/outreachly/crm-sync/internal/usecase"
)

const (
	testUserID = "4f9a2e18-7c53-4b1a-9be0-1d2f3a4b5c6d"
	testLeadID = "8c1d5e2f-0a9b-4c3d-8e7f-6a5b4c3d2e1f"
)

// Stub repositories covering only the paths these handler tests exercise.

type stubIntegrationRepo struct {
	integrations []*entity.Integration
	err          error
}

func (s *stubIntegrationRepo) GetConnected(ctx context.Context, userID, integrationType string) (*entity.Integration, error) {
	return nil, nil
}

func (s *stubIntegrationRepo) GetConnectedByUser(ctx context.Context, userID string) ([]*entity.Integration, error) {
	return s.integrations, s.err
}

func (s *stubIntegrationRepo) UpdateCredentials(ctx context.Context, id int64, ciphertext, iv string) error {
	return nil
}

func (s *stubIntegrationRepo) UpdateStatus(ctx context.Context, id int64, status entity.IntegrationStatus) error {
	return nil
}

type stubMappingRepo struct {
	mappings []*entity.CRMMapping
}

func (s *stubMappingRepo) Get(ctx context.Context, providerTag string, entityType entity.LocalEntityType, entityID string) (*entity.CRMMapping, error) {
	return nil, nil
}

func (s *stubMappingRepo) GetByEntity(ctx context.Context, entityType entity.LocalEntityType, entityID string) ([]*entity.CRMMapping, error) {
	return s.mappings, nil
}

func (s *stubMappingRepo) Create(ctx context.Context, mapping *entity.CRMMapping) error {
	return nil
}

func (s *stubMappingRepo) Touch(ctx context.Context, id int64) error {
	return nil
}

func newHandlerService(integrations *stubIntegrationRepo, mappings *stubMappingRepo) *usecase.SyncService {
	return usecase.NewSyncService(nil, nil, integrations, mappings, nil, nil, zap.NewNop())
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder) echo.Context {
	user := &auth.AuthUser{UserID: testUserID, Email: "user@example.com"}
	ctx := auth.WithUser(req.Context(), user)
	return e.NewContext(req.WithContext(ctx), rec)
}

func TestSyncHandler_SyncLead_Validation(t *testing.T) {
	e := echo.New()
	handler := NewSyncHandler(newHandlerService(&stubIntegrationRepo{}, &stubMappingRepo{}), zap.NewNop())

	t.Run("rejects an unknown provider", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"provider":"zoho"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec)
		c.SetParamNames("id")
		c.SetParamValues(testLeadID)

		assert.NoError(t, handler.SyncLead(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a missing provider", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := authedContext(e, req, rec)
		c.SetParamNames("id")
		c.SetParamValues(testLeadID)

		assert.NoError(t, handler.SyncLead(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"provider":"hubspot"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.SyncLead(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestSyncHandler_GetConnections(t *testing.T) {
	e := echo.New()
	repo := &stubIntegrationRepo{integrations: []*entity.Integration{
		{ID: 1, Type: "crm_hubspot", Status: entity.IntegrationStatusConnected},
		{ID: 2, Type: "crm_pipedrive", Status: entity.IntegrationStatusConnected},
	}}
	handler := NewSyncHandler(newHandlerService(repo, &stubMappingRepo{}), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)

	assert.NoError(t, handler.GetConnections(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hubspot")
	assert.Contains(t, rec.Body.String(), "pipedrive")
}

func TestSyncHandler_GetSyncStatus(t *testing.T) {
	e := echo.New()
	mappings := &stubMappingRepo{mappings: []*entity.CRMMapping{
		{ID: 1, Provider: string(provider.TypeHubSpot), LocalEntityID: testLeadID, LastSyncedAt: time.Now()},
	}}
	handler := NewSyncHandler(newHandlerService(&stubIntegrationRepo{}, mappings), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec)
	c.SetParamNames("id")
	c.SetParamValues(testLeadID)

	assert.NoError(t, handler.GetSyncStatus(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"synced":true`)
	assert.Contains(t, rec.Body.String(), "salesforce")
}
