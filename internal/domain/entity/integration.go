package entity

import (
	"encoding/json"
	"time"
)

// IntegrationStatus is the lifecycle state of a third-party connection.
type IntegrationStatus string

const (
	IntegrationStatusConnected    IntegrationStatus = "connected"
	IntegrationStatusDisconnected IntegrationStatus = "disconnected"
)

// CRMIntegrationPrefix prefixes the integration type of every CRM provider
// connection ("crm_hubspot", "crm_salesforce", ...).
const CRMIntegrationPrefix = "crm_"

// Integration is one (user, provider) connection. Credentials are stored as
// an AES-GCM sealed blob; they are decrypted only at the provider-client
// construction boundary.
type Integration struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Status    IntegrationStatus `json:"status"`
	// Credentials holds the base64 ciphertext of the serialized
	// CRMCredentials blob, CredentialsIV the base64 GCM nonce.
	Credentials   string    `json:"-"`
	CredentialsIV string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// credentialsVersion is the current schema version of the credential blob.
const credentialsVersion = 1

// CRMCredentials is the decrypted credential blob for one integration.
// InstanceURL is only populated for Salesforce.
type CRMCredentials struct {
	Version      int       `json:"version"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	InstanceURL  string    `json:"instance_url,omitempty"`
}

// Expired reports whether the access token must be refreshed before use.
func (c *CRMCredentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Marshal serializes the blob for encryption, stamping the schema version.
func (c *CRMCredentials) Marshal() ([]byte, error) {
	c.Version = credentialsVersion
	return json.Marshal(c)
}

// ParseCRMCredentials deserializes a decrypted credential blob.
func ParseCRMCredentials(data []byte) (*CRMCredentials, error) {
	var creds CRMCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
