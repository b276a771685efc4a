package salesforce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// leadFields maps the generic contact shape onto Salesforce Lead fields,
// dropping empty values. Salesforce rejects Leads without LastName and
// Company, so creates backfill placeholders.
func leadFields(contact *provider.Contact) map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(name, value string) {
		if value != "" {
			fields[name] = value
		}
	}
	set("Email", contact.Email)
	set("FirstName", contact.FirstName)
	set("LastName", contact.LastName)
	set("Company", contact.Company)
	set("Phone", contact.Phone)
	set("Title", contact.Title)
	set("Website", contact.Website)
	return fields
}

// CreateContact creates a Lead sobject.
// POST /services/data/v59.0/sobjects/Lead
func (c *Client) CreateContact(ctx context.Context, contact *provider.Contact) (*provider.RemoteObject, error) {
	fields := leadFields(contact)
	if _, ok := fields["LastName"]; !ok {
		fields["LastName"] = "Unknown"
	}
	if _, ok := fields["Company"]; !ok {
		fields["Company"] = "Unknown"
	}

	respBody, err := c.do(ctx, http.MethodPost, c.sobjectPath("Lead"), fields)
	if err != nil {
		return nil, err
	}

	obj, err := c.parseCreate(respBody, provider.RemoteTypeContact)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Salesforce: Lead created", zap.String("lead_id", obj.ID))
	return obj, nil
}

// UpdateContact patches only the supplied fields. Salesforce answers PATCH
// with 204 and no body, so the remote id is echoed from the argument.
// PATCH /services/data/v59.0/sobjects/Lead/{id}
func (c *Client) UpdateContact(ctx context.Context, remoteID string, contact *provider.Contact) (*provider.RemoteObject, error) {
	if _, err := c.do(ctx, http.MethodPatch, c.sobjectPath("Lead")+"/"+remoteID, leadFields(contact)); err != nil {
		return nil, err
	}
	return &provider.RemoteObject{ID: remoteID, Type: provider.RemoteTypeContact}, nil
}

// GetContact fetches a Lead by id. Any failure is reported as not found.
func (c *Client) GetContact(ctx context.Context, remoteID string) (*provider.Contact, error) {
	respBody, err := c.do(ctx, http.MethodGet, c.sobjectPath("Lead")+"/"+remoteID, nil)
	if err != nil {
		return nil, nil
	}

	var record leadRecord
	if err := json.Unmarshal(respBody, &record); err != nil {
		return nil, nil
	}
	return record.toContact(), nil
}

type leadRecord struct {
	ID        string `json:"Id"`
	Email     string `json:"Email"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Company   string `json:"Company"`
	Phone     string `json:"Phone"`
	Title     string `json:"Title"`
	Website   string `json:"Website"`
}

func (r *leadRecord) toContact() *provider.Contact {
	return &provider.Contact{
		RemoteID:  r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Company:   r.Company,
		Phone:     r.Phone,
		Title:     r.Title,
		Website:   r.Website,
	}
}

// FindContactByEmail runs a SOQL query for an existing Lead with the email.
// GET /services/data/v59.0/query?q=...
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*provider.Contact, error) {
	// Escape single quotes to keep the SOQL literal intact.
	escaped := strings.ReplaceAll(email, "'", `\'`)
	soql := fmt.Sprintf("SELECT Id, Email, FirstName, LastName, Company, Phone, Title, Website FROM Lead WHERE Email = '%s' LIMIT 1", escaped)
	path := fmt.Sprintf("/services/data/%s/query?q=%s", apiVersion, url.QueryEscape(soql))

	respBody, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		TotalSize int          `json:"totalSize"`
		Records   []leadRecord `json:"records"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse query response",
			Details: err.Error(),
		}
	}

	if len(result.Records) == 0 {
		return nil, nil
	}
	return result.Records[0].toContact(), nil
}
