// Package config loads the SDK's endpoint and session settings from an
// optional YAML file overlaid with environment variables. Environment
// variables always win, so deployments can override a checked-in file
// without editing it.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the endpoints of the console's APIs and the session refresh
// settings. Either OAuthTokenURL or OIDCIssuer must be set; when both are
// present the explicit token URL wins and no discovery is performed.
type Config struct {
	// OAuthTokenURL is the OAuth2 token endpoint used for password and
	// refresh-token grants.
	OAuthTokenURL string `env:"OAUTH_TOKEN_URL" yaml:"oauth_token_url"`

	// OIDCIssuer is the OIDC issuer to discover the token endpoint from,
	// used when OAuthTokenURL is not set explicitly.
	OIDCIssuer string `env:"OIDC_ISSUER" yaml:"oidc_issuer"`

	// ClientID identifies this application to the token endpoint.
	ClientID string `env:"OAUTH_CLIENT_ID" yaml:"oauth_client_id"`

	// Base URLs for the console's REST API families.
	SecurityAPIURL  string `env:"SECURITY_API_URL" yaml:"security_api_url"`
	SchedulerAPIURL string `env:"SCHEDULER_API_URL" yaml:"scheduler_api_url"`
	CodesAPIURL     string `env:"CODES_API_URL" yaml:"codes_api_url"`

	// RefreshInterval is how often the session manager checks whether the
	// access token needs renewing.
	RefreshInterval time.Duration `env:"SESSION_REFRESH_INTERVAL" yaml:"refresh_interval"`

	// RefreshMargin is how long before expiry a renewal is attempted.
	RefreshMargin time.Duration `env:"SESSION_REFRESH_MARGIN" yaml:"refresh_margin"`
}

// Load reads the configuration from path (when non-empty) and applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "[config.Load] reading config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "[config.Load] parsing config file")
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Load] parsing environment")
	}

	if cfg.ClientID == "" {
		cfg.ClientID = "admin-console"
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = 10 * time.Second
	}
	if cfg.RefreshMargin == 0 {
		cfg.RefreshMargin = 30 * time.Second
	}

	if cfg.OAuthTokenURL == "" && cfg.OIDCIssuer == "" {
		return nil, errors.New("[config.Load] either oauth_token_url or oidc_issuer is required")
	}

	return cfg, nil
}
