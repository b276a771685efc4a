package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// engagementTypes maps generic activity types onto HubSpot engagement types.
// Unrecognized types fall back to NOTE.
var engagementTypes = map[string]string{
	"email":   "EMAIL",
	"call":    "CALL",
	"meeting": "MEETING",
	"note":    "NOTE",
}

func engagementType(activityType string) string {
	if t, ok := engagementTypes[activityType]; ok {
		return t
	}
	return "NOTE"
}

// CreateActivity logs an engagement against a contact via the legacy
// Engagements API (the v3 objects API has no engagement write path).
// POST /engagements/v1/engagements
func (c *Client) CreateActivity(ctx context.Context, activity *provider.Activity) (*provider.RemoteObject, error) {
	contactID, err := strconv.ParseInt(activity.ContactID, 10, 64)
	if err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeValidation,
			Message: "HubSpot contact ids are numeric",
			Details: err.Error(),
		}
	}

	body := map[string]interface{}{
		"engagement": map[string]interface{}{
			"active":    true,
			"type":      engagementType(activity.Type),
			"timestamp": activity.Timestamp.UnixMilli(),
		},
		"associations": map[string]interface{}{
			"contactIds": []int64{contactID},
		},
		"metadata": map[string]interface{}{
			"subject": activity.Subject,
			"body":    activityBody(activity),
		},
	}

	respBody, err := c.do(ctx, http.MethodPost, "/engagements/v1/engagements", body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Engagement struct {
			ID int64 `json:"id"`
		} `json:"engagement"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse engagement response",
			Details: err.Error(),
		}
	}

	remoteID := strconv.FormatInt(result.Engagement.ID, 10)
	c.logger.Info("HubSpot: Engagement created",
		zap.String("engagement_id", remoteID),
		zap.String("type", engagementType(activity.Type)))
	return &provider.RemoteObject{ID: remoteID, Type: provider.RemoteTypeActivity}, nil
}

// activityBody appends the recorded outcome to the engagement body so
// feedback survives the one-way sync.
func activityBody(activity *provider.Activity) string {
	body := activity.Body
	if activity.Outcome != "" {
		if body != "" {
			body += "\n\n"
		}
		body += "Outcome: " + activity.Outcome
	}
	return body
}
