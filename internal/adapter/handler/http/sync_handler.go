package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/outreachly/crm-sync/internal/domain/provider"
	"github.com/outreachly/crm-sync/internal/middleware/auth"
	"github.com/outreachly/crm-sync/internal/usecase"
	"go.uber.org/zap"
)

type SyncHandler struct {
	service  *usecase.SyncService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSyncHandler(service *usecase.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

type syncLeadRequest struct {
	Provider string `json:"provider" validate:"required,oneof=hubspot salesforce pipedrive"`
}

// SyncLead handles POST /api/v1/crm/leads/:id/sync
func (h *SyncHandler) SyncLead(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	leadID := c.Param("id")

	var req syncLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "provider must be one of: hubspot, salesforce, pipedrive",
		})
	}

	h.logger.Info("Syncing lead to CRM",
		zap.String("user_id", user.UserID),
		zap.String("lead_id", leadID),
		zap.String("provider", req.Provider))

	result := h.service.SyncLeadToCRM(c.Request().Context(), user.UserID, leadID, provider.Type(req.Provider))
	return c.JSON(http.StatusOK, result)
}

// SyncLeadToAll handles POST /api/v1/crm/leads/:id/sync-all
func (h *SyncHandler) SyncLeadToAll(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	leadID := c.Param("id")

	results, err := h.service.SyncLeadToAllCRMs(c.Request().Context(), user.UserID, leadID)
	if err != nil {
		h.logger.Error("Failed to enumerate connected CRMs",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to sync lead",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

// GetSyncStatus handles GET /api/v1/crm/leads/:id/status
func (h *SyncHandler) GetSyncStatus(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	leadID := c.Param("id")

	status, err := h.service.GetSyncStatus(c.Request().Context(), leadID)
	if err != nil {
		h.logger.Error("Failed to read sync status",
			zap.String("lead_id", leadID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to read sync status",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"providers": status})
}

// GetConnections handles GET /api/v1/crm/connections
func (h *SyncHandler) GetConnections(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	connected, err := h.service.GetConnectedCRMs(c.Request().Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to list connected CRMs",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to list connected CRMs",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"connected": connected})
}
