package salesforce

import (
	"context"
	"net/http"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// taskSubtypes maps generic activity types onto Task subtypes. Salesforce has
// no meeting subtype on Task; meetings and anything unrecognized log as a
// plain Task.
var taskSubtypes = map[string]string{
	"email": "Email",
	"call":  "Call",
	"note":  "Task",
}

func taskSubtype(activityType string) string {
	if t, ok := taskSubtypes[activityType]; ok {
		return t
	}
	return "Task"
}

// CreateActivity logs a completed Task against the Lead.
// POST /services/data/v59.0/sobjects/Task
func (c *Client) CreateActivity(ctx context.Context, activity *provider.Activity) (*provider.RemoteObject, error) {
	description := activity.Body
	if activity.Outcome != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Outcome: " + activity.Outcome
	}

	body := map[string]interface{}{
		"Subject":      activity.Subject,
		"Description":  description,
		"Status":       "Completed",
		"TaskSubtype":  taskSubtype(activity.Type),
		"ActivityDate": activity.Timestamp.Format("2006-01-02"),
		"WhoId":        activity.ContactID,
	}

	respBody, err := c.do(ctx, http.MethodPost, c.sobjectPath("Task"), body)
	if err != nil {
		return nil, err
	}

	obj, err := c.parseCreate(respBody, provider.RemoteTypeActivity)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Salesforce: Task created",
		zap.String("task_id", obj.ID),
		zap.String("subtype", taskSubtype(activity.Type)))
	return obj, nil
}
