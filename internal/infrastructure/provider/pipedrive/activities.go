package pipedrive

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// activityTypes maps generic activity types onto Pipedrive activity type
// keys. Pipedrive has no note activity type; notes and anything unrecognized
// log as a task.
var activityTypes = map[string]string{
	"email":   "email",
	"call":    "call",
	"meeting": "meeting",
	"note":    "task",
}

func activityType(generic string) string {
	if t, ok := activityTypes[generic]; ok {
		return t
	}
	return "task"
}

// CreateActivity logs a completed activity against a person.
// POST /activities
func (c *Client) CreateActivity(ctx context.Context, activity *provider.Activity) (*provider.RemoteObject, error) {
	personID, err := strconv.ParseInt(activity.ContactID, 10, 64)
	if err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeValidation,
			Message: "Pipedrive person ids are numeric",
			Details: err.Error(),
		}
	}

	note := activity.Body
	if activity.Outcome != "" {
		if note != "" {
			note += "\n\n"
		}
		note += "Outcome: " + activity.Outcome
	}

	body := map[string]interface{}{
		"subject":   activity.Subject,
		"type":      activityType(activity.Type),
		"note":      note,
		"due_date":  activity.Timestamp.Format("2006-01-02"),
		"due_time":  activity.Timestamp.Format("15:04"),
		"person_id": personID,
		"done":      1,
	}

	data, err := c.do(ctx, http.MethodPost, "/activities", body)
	if err != nil {
		return nil, err
	}

	var record struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse activity response",
			Details: err.Error(),
		}
	}

	remoteID := strconv.FormatInt(record.ID, 10)
	c.logger.Info("Pipedrive: Activity created",
		zap.String("activity_id", remoteID),
		zap.String("type", activityType(activity.Type)))
	return &provider.RemoteObject{ID: remoteID, Type: provider.RemoteTypeActivity}, nil
}
