package pipedrive

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/outreachly/crm-sync/internal/domain/provider"
)

// dealFields maps the generic deal shape onto a Pipedrive deal, dropping
// empty values. Pipedrive stages are numeric pipeline ids, so the generic
// stage is only forwarded when it parses as one.
func dealFields(deal *provider.Deal) map[string]interface{} {
	fields := map[string]interface{}{}
	if deal.Name != "" {
		fields["title"] = deal.Name
	}
	if deal.Amount != nil {
		fields["value"] = deal.Amount.String()
	}
	if deal.Stage != "" {
		if stageID, err := strconv.ParseInt(deal.Stage, 10, 64); err == nil {
			fields["stage_id"] = stageID
		}
	}
	if deal.CloseDate != nil {
		fields["expected_close_date"] = deal.CloseDate.Format("2006-01-02")
	}
	if deal.Probability != nil {
		fields["probability"] = *deal.Probability
	}
	if deal.ContactID != "" {
		if personID, err := strconv.ParseInt(deal.ContactID, 10, 64); err == nil {
			fields["person_id"] = personID
		}
	}
	return fields
}

func (c *Client) parseDeal(data json.RawMessage) (*provider.RemoteObject, error) {
	var record struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse deal response",
			Details: err.Error(),
		}
	}
	return &provider.RemoteObject{ID: strconv.FormatInt(record.ID, 10), Type: provider.RemoteTypeDeal}, nil
}

// CreateDeal creates a deal linked to its person.
// POST /deals
func (c *Client) CreateDeal(ctx context.Context, deal *provider.Deal) (*provider.RemoteObject, error) {
	data, err := c.do(ctx, http.MethodPost, "/deals", dealFields(deal))
	if err != nil {
		return nil, err
	}
	return c.parseDeal(data)
}

// UpdateDeal updates only the supplied fields.
// PUT /deals/{id}
func (c *Client) UpdateDeal(ctx context.Context, remoteID string, deal *provider.Deal) (*provider.RemoteObject, error) {
	data, err := c.do(ctx, http.MethodPut, "/deals/"+remoteID, dealFields(deal))
	if err != nil {
		return nil, err
	}
	return c.parseDeal(data)
}
