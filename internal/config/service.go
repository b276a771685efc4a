package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
	JWTSecret   string `yaml:"jwt_secret" validate:"required"`
	// EncryptionKey is the 64-hex-char AES-256 key sealing credential blobs.
	EncryptionKey string `yaml:"encryption_key" validate:"required,len=64,hexadecimal"`

	HubSpot    ProviderConfig `yaml:"hubspot"`
	Salesforce ProviderConfig `yaml:"salesforce"`
	Pipedrive  ProviderConfig `yaml:"pipedrive"`
}

// ProviderConfig holds the OAuth application registered with one CRM
// provider. TokenURL and APIBaseURL are overridable for tests; empty values
// fall back to the provider defaults.
type ProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	TokenURL     string `yaml:"token_url"`
	APIBaseURL   string `yaml:"api_base_url"`
}
