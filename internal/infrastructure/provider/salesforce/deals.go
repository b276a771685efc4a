package salesforce

import (
	"context"
	"net/http"
	"time"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// opportunityFields maps the generic deal shape onto Opportunity fields,
// dropping empty values.
func opportunityFields(deal *provider.Deal) map[string]interface{} {
	fields := map[string]interface{}{}
	if deal.Name != "" {
		fields["Name"] = deal.Name
	}
	if deal.Amount != nil {
		fields["Amount"] = deal.Amount.InexactFloat64()
	}
	if deal.Stage != "" {
		fields["StageName"] = deal.Stage
	}
	if deal.CloseDate != nil {
		fields["CloseDate"] = deal.CloseDate.Format("2006-01-02")
	}
	if deal.Probability != nil {
		fields["Probability"] = *deal.Probability
	}
	return fields
}

// CreateDeal creates an Opportunity. Opportunities require StageName and
// CloseDate; creates backfill defaults when the caller omits them. When a
// contact id is supplied, a best-effort OpportunityContactRole links the two;
// association failure never rolls back the created opportunity.
// POST /services/data/v59.0/sobjects/Opportunity
func (c *Client) CreateDeal(ctx context.Context, deal *provider.Deal) (*provider.RemoteObject, error) {
	fields := opportunityFields(deal)
	if _, ok := fields["StageName"]; !ok {
		fields["StageName"] = "Prospecting"
	}
	if _, ok := fields["CloseDate"]; !ok {
		fields["CloseDate"] = time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	}

	respBody, err := c.do(ctx, http.MethodPost, c.sobjectPath("Opportunity"), fields)
	if err != nil {
		return nil, err
	}

	obj, err := c.parseCreate(respBody, provider.RemoteTypeDeal)
	if err != nil {
		return nil, err
	}

	if deal.ContactID != "" {
		role := map[string]interface{}{
			"OpportunityId": obj.ID,
			"ContactId":     deal.ContactID,
			"IsPrimary":     true,
		}
		if _, err := c.do(ctx, http.MethodPost, c.sobjectPath("OpportunityContactRole"), role); err != nil {
			c.logger.Warn("Salesforce: Opportunity contact association failed",
				zap.String("opportunity_id", obj.ID),
				zap.String("contact_id", deal.ContactID),
				zap.Error(err))
		}
	}

	return obj, nil
}

// UpdateDeal patches only the supplied fields.
// PATCH /services/data/v59.0/sobjects/Opportunity/{id}
func (c *Client) UpdateDeal(ctx context.Context, remoteID string, deal *provider.Deal) (*provider.RemoteObject, error) {
	if _, err := c.do(ctx, http.MethodPatch, c.sobjectPath("Opportunity")+"/"+remoteID, opportunityFields(deal)); err != nil {
		return nil, err
	}
	return &provider.RemoteObject{ID: remoteID, Type: provider.RemoteTypeDeal}, nil
}
