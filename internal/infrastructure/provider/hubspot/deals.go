package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/outreachly/crm-sync/internal/domain/provider"
)

// dealProperties maps the generic deal shape onto HubSpot deal properties.
func dealProperties(deal *provider.Deal) map[string]string {
	props := map[string]string{}
	if deal.Name != "" {
		props["dealname"] = deal.Name
	}
	if deal.Amount != nil {
		props["amount"] = deal.Amount.String()
	}
	if deal.Stage != "" {
		props["dealstage"] = deal.Stage
	}
	if deal.CloseDate != nil {
		props["closedate"] = deal.CloseDate.Format("2006-01-02")
	}
	if deal.Probability != nil {
		props["hs_deal_stage_probability"] = strconv.Itoa(*deal.Probability)
	}
	return props
}

// CreateDeal creates a deal, associated to its contact when one is given.
// POST /crm/v3/objects/deals
func (c *Client) CreateDeal(ctx context.Context, deal *provider.Deal) (*provider.RemoteObject, error) {
	body := map[string]interface{}{
		"properties": dealProperties(deal),
	}
	if deal.ContactID != "" {
		// Association type 3 is deal-to-contact.
		body["associations"] = []map[string]interface{}{
			{
				"to": map[string]string{"id": deal.ContactID},
				"types": []map[string]interface{}{
					{"associationCategory": "HUBSPOT_DEFINED", "associationTypeId": 3},
				},
			},
		}
	}

	respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/deals", body)
	if err != nil {
		return nil, err
	}

	var obj hubspotObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse deal response",
			Details: err.Error(),
		}
	}

	return &provider.RemoteObject{ID: obj.ID, Type: provider.RemoteTypeDeal}, nil
}

// UpdateDeal patches only the supplied fields.
// PATCH /crm/v3/objects/deals/{dealId}
func (c *Client) UpdateDeal(ctx context.Context, remoteID string, deal *provider.Deal) (*provider.RemoteObject, error) {
	body := map[string]interface{}{
		"properties": dealProperties(deal),
	}

	respBody, err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/deals/"+remoteID, body)
	if err != nil {
		return nil, err
	}

	var obj hubspotObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse deal response",
			Details: err.Error(),
		}
	}

	return &provider.RemoteObject{ID: obj.ID, Type: provider.RemoteTypeDeal}, nil
}
