package openid

import (
	"fmt"
	"net/http"
)

// Provider provides relying-party support for a single OpenID 2.0 identity
// provider. It holds no per-request state: concurrent authentication
// attempts and callback verifications are fully independent.
type Provider struct {
	config *Config
	client *http.Client
}

// NewProvider creates a Provider from the given config. Unlike discovery
// based protocols, no request is made to the provider here; the endpoints
// are fixed, pre-known URLs.
func NewProvider(c *Config) (*Provider, error) {
	const op = "openid.NewProvider"
	if c == nil {
		return nil, fmt.Errorf("%s: provider config is nil: %w", op, ErrNilParameter)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: provider config is invalid: %w", op, err)
	}
	client, err := c.HTTPClient()
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create http client: %w", op, err)
	}
	return &Provider{
		config: c,
		client: client,
	}, nil
}

// Config returns the provider's config.
func (p *Provider) Config() *Config {
	return p.config
}
