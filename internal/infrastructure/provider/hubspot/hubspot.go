package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.hubapi.com"

// Client implements provider.CRMProvider against the HubSpot CRM v3 object
// API and the legacy Engagements API.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a HubSpot client from a live access token. baseURL may be
// empty to target the production API.
func NewClient(accessToken, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Name returns the provider tag.
func (c *Client) Name() string {
	return string(provider.TypeHubSpot)
}

// do issues one authenticated JSON request and returns the raw response
// body. Any non-2xx status becomes a *provider.Error.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, &provider.Error{
				Code:    provider.ErrCodeMarshal,
				Message: "Failed to prepare request",
				Details: err.Error(),
			}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	url := c.baseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeRequest,
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("HubSpot: API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &provider.Error{
			Code:    provider.ErrCodeRemoteAPIError,
			Message: "HubSpot API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeResponse,
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("HubSpot: API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return nil, &provider.Error{
			Code:    provider.ErrCodeRemoteAPIError,
			Message: fmt.Sprintf("HubSpot API returned %d", resp.StatusCode),
			Details: string(respBody),
		}
	}

	return respBody, nil
}
