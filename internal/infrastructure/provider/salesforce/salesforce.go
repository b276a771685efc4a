package salesforce

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

const apiVersion = "v59.0"

// Client implements provider.CRMProvider against the Salesforce REST API.
// Every tenant lives on its own instance URL, carried in the credential blob.
type Client struct {
	accessToken string
	instanceURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a Salesforce client bound to the tenant instance.
func NewClient(accessToken, instanceURL string, logger *zap.Logger) *Client {
	return &Client{
		accessToken: accessToken,
		instanceURL: instanceURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Name returns the provider tag.
func (c *Client) Name() string {
	return string(provider.TypeSalesforce)
}

func (c *Client) sobjectPath(object string) string {
	return fmt.Sprintf("/services/data/%s/sobjects/%s", apiVersion, object)
}

// do issues one authenticated JSON request. Salesforce PATCH requests return
// 204 with an empty body; callers must tolerate a nil response body.
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

	url := c.instanceURL + path
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
		c.logger.Error("Salesforce: API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &provider.Error{
			Code:    provider.ErrCodeRemoteAPIError,
			Message: "Salesforce API request failed",
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
		c.logger.Warn("Salesforce: API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return nil, &provider.Error{
			Code:    provider.ErrCodeRemoteAPIError,
			Message: fmt.Sprintf("Salesforce API returned %d", resp.StatusCode),
			Details: string(respBody),
		}
	}

	return respBody, nil
}

// createResponse is the envelope Salesforce returns from sobject creates.
type createResponse struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

func (c *Client) parseCreate(respBody []byte, remoteType string) (*provider.RemoteObject, error) {
	var result createResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse create response",
			Details: err.Error(),
		}
	}
	return &provider.RemoteObject{ID: result.ID, Type: remoteType}, nil
}
