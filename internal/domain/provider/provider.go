package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CRMProvider defines the capability interface every CRM client (HubSpot,
// Salesforce, Pipedrive) implements. Each implementation owns its own mapping
// from these generic shapes onto the provider's native object model.
type CRMProvider interface {
	// CreateContact creates the provider-native prospect object
	// (HubSpot contact, Salesforce Lead, Pipedrive person).
	CreateContact(ctx context.Context, contact *Contact) (*RemoteObject, error)

	// UpdateContact performs a partial update; only populated fields are sent.
	UpdateContact(ctx context.Context, remoteID string, contact *Contact) (*RemoteObject, error)

	// GetContact fetches a remote contact. A nil result with a nil error
	// means the record is not retrievable; callers treat that as not found.
	GetContact(ctx context.Context, remoteID string) (*Contact, error)

	// FindContactByEmail uses the provider's native search to locate an
	// existing record before creating a duplicate. Nil means no match.
	FindContactByEmail(ctx context.Context, email string) (*Contact, error)

	// CreateActivity logs an interaction against a remote contact
	// (HubSpot engagement, Salesforce Task, Pipedrive activity).
	CreateActivity(ctx context.Context, activity *Activity) (*RemoteObject, error)

	// CreateDeal creates the provider's deal/opportunity object.
	CreateDeal(ctx context.Context, deal *Deal) (*RemoteObject, error)

	// UpdateDeal performs a partial update of a deal/opportunity.
	UpdateDeal(ctx context.Context, remoteID string, deal *Deal) (*RemoteObject, error)

	// Name returns the provider tag ("hubspot", "salesforce", "pipedrive").
	Name() string
}

// Contact is the provider-agnostic prospect payload. Empty fields are
// stripped before sending, so a partially populated Contact is a partial
// update.
type Contact struct {
	RemoteID  string `json:"remote_id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Company   string `json:"company,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Title     string `json:"title,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Activity is the provider-agnostic interaction payload.
type Activity struct {
	ContactID string    `json:"contact_id"`
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   string    `json:"outcome,omitempty"`
	Direction string    `json:"direction,omitempty"`
}

// Deal is the provider-agnostic sales opportunity payload.
type Deal struct {
	Name        string           `json:"name,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Stage       string           `json:"stage,omitempty"`
	CloseDate   *time.Time       `json:"close_date,omitempty"`
	Probability *int             `json:"probability,omitempty"`
	ContactID   string           `json:"contact_id,omitempty"`
}

// RemoteObject is the identity of a provider object touched by a write.
type RemoteObject struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Remote object type tags stored in mapping rows.
const (
	RemoteTypeContact  = "contact"
	RemoteTypeActivity = "activity"
	RemoteTypeDeal     = "deal"
)

// Type identifies a CRM provider.
type Type string

const (
	TypeHubSpot    Type = "hubspot"
	TypeSalesforce Type = "salesforce"
	TypePipedrive  Type = "pipedrive"
)

// All lists every supported provider, in the order sync status is reported.
func All() []Type {
	return []Type{TypeHubSpot, TypeSalesforce, TypePipedrive}
}

// Valid reports whether t names a supported provider.
func (t Type) Valid() bool {
	switch t {
	case TypeHubSpot, TypeSalesforce, TypePipedrive:
		return true
	}
	return false
}

// IntegrationType returns the integration row type for this provider
// ("crm_hubspot", ...).
func (t Type) IntegrationType() string {
	return "crm_" + string(t)
}

// FromIntegrationType derives the provider tag from an integration type,
// returning false when the type is not a CRM integration.
func FromIntegrationType(integrationType string) (Type, bool) {
	const prefix = "crm_"
	if len(integrationType) <= len(prefix) || integrationType[:len(prefix)] != prefix {
		return "", false
	}
	t := Type(integrationType[len(prefix):])
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// Error is a provider-layer failure, carrying the remote status or error
// code and the response body when available.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Provider error codes.
const (
	ErrCodeNotConnected   = "NOT_CONNECTED"
	ErrCodeAuthExpired    = "AUTH_EXPIRED"
	ErrCodeRefreshFailed  = "REFRESH_FAILED"
	ErrCodeRemoteAPIError = "REMOTE_API_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeMarshal        = "MARSHAL_ERROR"
	ErrCodeRequest        = "REQUEST_ERROR"
	ErrCodeResponse       = "RESPONSE_ERROR"
	ErrCodeParse          = "PARSE_ERROR"
)
