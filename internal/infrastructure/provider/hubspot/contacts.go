package hubspot

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// contactProperties maps the generic contact shape onto HubSpot contact
// property names, dropping empty fields so partial updates only send what
// they carry.
func contactProperties(contact *provider.Contact) map[string]string {
	props := map[string]string{}
	set := func(name, value string) {
		if value != "" {
			props[name] = value
		}
	}
	set("email", contact.Email)
	set("firstname", contact.FirstName)
	set("lastname", contact.LastName)
	set("company", contact.Company)
	set("phone", contact.Phone)
	set("jobtitle", contact.Title)
	set("website", contact.Website)
	return props
}

// hubspotObject is the CRM v3 object envelope.
type hubspotObject struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

func (o *hubspotObject) toContact() *provider.Contact {
	return &provider.Contact{
		RemoteID:  o.ID,
		Email:     o.Properties["email"],
		FirstName: o.Properties["firstname"],
		LastName:  o.Properties["lastname"],
		Company:   o.Properties["company"],
		Phone:     o.Properties["phone"],
		Title:     o.Properties["jobtitle"],
		Website:   o.Properties["website"],
	}
}

// CreateContact creates a contact object.
// POST /crm/v3/objects/contacts
func (c *Client) CreateContact(ctx context.Context, contact *provider.Contact) (*provider.RemoteObject, error) {
	body := map[string]interface{}{
		"properties": contactProperties(contact),
	}

	respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", body)
	if err != nil {
		return nil, err
	}

	var obj hubspotObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse contact response",
			Details: err.Error(),
		}
	}

	c.logger.Info("HubSpot: Contact created", zap.String("contact_id", obj.ID))
	return &provider.RemoteObject{ID: obj.ID, Type: provider.RemoteTypeContact}, nil
}

// UpdateContact patches only the supplied fields.
// PATCH /crm/v3/objects/contacts/{contactId}
func (c *Client) UpdateContact(ctx context.Context, remoteID string, contact *provider.Contact) (*provider.RemoteObject, error) {
	body := map[string]interface{}{
		"properties": contactProperties(contact),
	}

	respBody, err := c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+remoteID, body)
	if err != nil {
		return nil, err
	}

	var obj hubspotObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse contact response",
			Details: err.Error(),
		}
	}

	return &provider.RemoteObject{ID: obj.ID, Type: provider.RemoteTypeContact}, nil
}

// GetContact fetches a contact by remote id. Any failure is reported as not
// found; the sync layer treats "not retrievable" the same way.
func (c *Client) GetContact(ctx context.Context, remoteID string) (*provider.Contact, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/crm/v3/objects/contacts/"+remoteID, nil)
	if err != nil {
		return nil, nil
	}

	var obj hubspotObject
	if err := json.Unmarshal(respBody, &obj); err != nil {
		return nil, nil
	}

	return obj.toContact(), nil
}

// FindContactByEmail searches for an existing contact by email so sync can
// adopt records created outside this system instead of duplicating them.
// POST /crm/v3/objects/contacts/search
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*provider.Contact, error) {
	body := map[string]interface{}{
		"filterGroups": []map[string]interface{}{
			{
				"filters": []map[string]string{
					{"propertyName": "email", "operator": "EQ", "value": email},
				},
			},
		},
		"properties": []string{"email", "firstname", "lastname", "company", "phone", "jobtitle", "website"},
		"limit":      1,
	}

	respBody, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Total   int             `json:"total"`
		Results []hubspotObject `json:"results"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse search response",
			Details: err.Error(),
		}
	}

	if len(result.Results) == 0 {
		return nil, nil
	}
	return result.Results[0].toContact(), nil
}
