package pipedrive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/outreachly/crm-sync/internal/domain/provider"
	"go.uber.org/zap"
)

// personFields maps the generic contact shape onto a Pipedrive person,
// dropping empty values. Pipedrive carries emails and phones as labelled
// value arrays; company and title ride on person custom keys the surrounding
// installation defines, so only the universally available fields are mapped.
func personFields(contact *provider.Contact) map[string]interface{} {
	fields := map[string]interface{}{}

	name := strings.TrimSpace(contact.FirstName + " " + contact.LastName)
	if name != "" {
		fields["name"] = name
	}
	if contact.Email != "" {
		fields["email"] = []map[string]interface{}{
			{"value": contact.Email, "primary": true},
		}
	}
	if contact.Phone != "" {
		fields["phone"] = []map[string]interface{}{
			{"value": contact.Phone, "primary": true},
		}
	}
	return fields
}

// personRecord is the data payload of person endpoints.
type personRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email []struct {
		Value   string `json:"value"`
		Primary bool   `json:"primary"`
	} `json:"email"`
	Phone []struct {
		Value   string `json:"value"`
		Primary bool   `json:"primary"`
	} `json:"phone"`
}

func (r *personRecord) toContact() *provider.Contact {
	contact := &provider.Contact{
		RemoteID: strconv.FormatInt(r.ID, 10),
	}
	if first, last, ok := strings.Cut(r.Name, " "); ok {
		contact.FirstName, contact.LastName = first, last
	} else {
		contact.FirstName = r.Name
	}
	for _, email := range r.Email {
		if email.Primary || contact.Email == "" {
			contact.Email = email.Value
		}
	}
	for _, phone := range r.Phone {
		if phone.Primary || contact.Phone == "" {
			contact.Phone = phone.Value
		}
	}
	return contact
}

// CreateContact creates a person.
// POST /persons
func (c *Client) CreateContact(ctx context.Context, contact *provider.Contact) (*provider.RemoteObject, error) {
	data, err := c.do(ctx, http.MethodPost, "/persons", personFields(contact))
	if err != nil {
		return nil, err
	}

	var record personRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse person response",
			Details: err.Error(),
		}
	}

	remoteID := strconv.FormatInt(record.ID, 10)
	c.logger.Info("Pipedrive: Person created", zap.String("person_id", remoteID))
	return &provider.RemoteObject{ID: remoteID, Type: provider.RemoteTypeContact}, nil
}

// UpdateContact updates only the supplied fields.
// PUT /persons/{id}
func (c *Client) UpdateContact(ctx context.Context, remoteID string, contact *provider.Contact) (*provider.RemoteObject, error) {
	data, err := c.do(ctx, http.MethodPut, "/persons/"+remoteID, personFields(contact))
	if err != nil {
		return nil, err
	}

	var record personRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse person response",
			Details: err.Error(),
		}
	}

	return &provider.RemoteObject{ID: strconv.FormatInt(record.ID, 10), Type: provider.RemoteTypeContact}, nil
}

// GetContact fetches a person by id. Any failure is reported as not found.
func (c *Client) GetContact(ctx context.Context, remoteID string) (*provider.Contact, error) {
	data, err := c.do(ctx, http.MethodGet, "/persons/"+remoteID, nil)
	if err != nil {
		return nil, nil
	}

	var record personRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, nil
	}
	return record.toContact(), nil
}

// FindContactByEmail searches persons by exact email match.
// GET /persons/search?term={email}&fields=email&exact_match=true
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*provider.Contact, error) {
	path := "/persons/search?term=" + url.QueryEscape(email) + "&fields=email&exact_match=true&limit=1"
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []struct {
			Item personRecord `json:"item"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &provider.Error{
			Code:    provider.ErrCodeParse,
			Message: "Failed to parse search response",
			Details: err.Error(),
		}
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	contact := result.Items[0].Item.toContact()
	if contact.Email == "" {
		contact.Email = email
	}
	return contact, nil
}
