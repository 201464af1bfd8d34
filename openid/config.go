package openid

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fedauth/openid2/openid/internal/strutils"
	sdkHttp "github.com/fedauth/openid2/sdk/http"
	"github.com/hashicorp/go-hclog"
)

// OpenID Authentication 2.0 protocol constants.
const (
	openIDNamespace  = "http://specs.openid.net/auth/2.0"
	identifierSelect = "http://specs.openid.net/auth/2.0/identifier_select"

	modeCheckIDSetup        = "checkid_setup"
	modeCheckAuthentication = "check_authentication"
)

// AXNamespace is the Attribute Exchange 1.0 extension namespace. Providers
// declare it under an alias of their choosing via openid.ns.<alias>.
const AXNamespace = "http://openid.net/srv/ax/1.0"

// uiNamespace is the OpenID User Interface extension namespace, used to pass
// a preferred language for the provider's login page.
const uiNamespace = "http://specs.openid.net/extensions/ui/1.0"

// GoogleAuthEndpoint is Google's fixed OpenID 2.0 endpoint.
const GoogleAuthEndpoint = "https://www.google.com/accounts/o8/ud"

// DefaultProviderTimeout bounds the direct verification round trip to the
// provider when no WithProviderTimeout option is given.
const DefaultProviderTimeout = 30 * time.Second

// Config represents the configuration for a single OpenID 2.0 identity
// provider. A second provider variant is just a different Config value.
type Config struct {
	// AuthEndpoint is the provider URL users are redirected to in order to
	// authenticate. It may already carry query parameters.
	AuthEndpoint string

	// VerifyEndpoint is the provider URL used for direct verification
	// (check_authentication) requests. Defaults to AuthEndpoint.
	VerifyEndpoint string

	// TrustOPEndpoint, when true, sends the verification request to the
	// openid.op_endpoint named by the callback, when present and https,
	// instead of VerifyEndpoint. Off by default: a forged callback could
	// otherwise name an endpoint that confirms its own assertion.
	TrustOPEndpoint bool

	// ProviderCA is an optional CA cert to use when sending requests to the
	// provider.
	ProviderCA string

	// ProviderTimeout bounds the verification round trip.
	ProviderTimeout time.Duration

	// Logger is an optional logger
	Logger hclog.Logger
}

// NewConfig composes a new config for a provider with the given
// authentication endpoint.
// Supported options:
//
//	WithVerifyEndpoint
//	WithTrustedOPEndpoint
//	WithProviderCA
//	WithProviderTimeout
//	WithLogger
func NewConfig(authEndpoint string, opt ...Option) (*Config, error) {
	const op = "openid.NewConfig"
	opts := getConfigOpts(opt...)
	c := &Config{
		AuthEndpoint:    authEndpoint,
		VerifyEndpoint:  opts.withVerifyEndpoint,
		TrustOPEndpoint: opts.withTrustedOPEndpoint,
		ProviderCA:      opts.withProviderCA,
		ProviderTimeout: opts.withProviderTimeout,
		Logger:          opts.withLogger,
	}
	if c.VerifyEndpoint == "" {
		c.VerifyEndpoint = c.AuthEndpoint
	}
	if c.ProviderTimeout == 0 {
		c.ProviderTimeout = DefaultProviderTimeout
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid provider config: %w", op, err)
	}
	return c, nil
}

// NewGoogleConfig composes a config for Google's public OpenID 2.0 endpoint.
func NewGoogleConfig(opt ...Option) (*Config, error) {
	return NewConfig(GoogleAuthEndpoint, opt...)
}

// NewGoogleFederatedConfig composes a config for Google federated login of a
// given apps domain.
func NewGoogleFederatedConfig(domain string, opt ...Option) (*Config, error) {
	const op = "openid.NewGoogleFederatedConfig"
	if domain == "" {
		return nil, fmt.Errorf("%s: domain is empty: %w", op, ErrInvalidParameter)
	}
	return NewConfig(fmt.Sprintf("https://www.google.com/a/%s/o8/ud?be=o8", domain), opt...)
}

// Validate the provider configuration. It verifies both endpoints parse as
// http or https URLs and the timeout is not negative; it doesn't verify the
// endpoints are reachable.
func (c *Config) Validate() error {
	const op = "openid.Validate"
	if c == nil {
		return fmt.Errorf("%s: provider config is nil: %w", op, ErrNilParameter)
	}
	if c.AuthEndpoint == "" {
		return fmt.Errorf("%s: auth endpoint is empty: %w", op, ErrInvalidParameter)
	}
	for _, endpoint := range []string{c.AuthEndpoint, c.VerifyEndpoint} {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("%s: endpoint %s is invalid: %w", op, endpoint, err)
		}
		if !strutils.StrListContains([]string{"https", "http"}, u.Scheme) {
			return fmt.Errorf("%s: endpoint %s scheme is not http or https: %w", op, endpoint, ErrInvalidParameter)
		}
	}
	if c.ProviderTimeout < 0 {
		return fmt.Errorf("%s: provider timeout is negative: %w", op, ErrInvalidParameter)
	}
	return nil
}

// HTTPClient is a helper function that creates a new http client for the
// provider configured
func (c *Config) HTTPClient() (*http.Client, error) {
	const op = "Config.HTTPClient"
	client, err := sdkHttp.NewClient(c.ProviderCA, c.ProviderTimeout)
	if err != nil {
		if errors.Is(err, sdkHttp.ErrInvalidCertificatePem) {
			return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
		}
		return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
	}
	return client, nil
}

// configOptions is the set of available options
type configOptions struct {
	withVerifyEndpoint    string
	withTrustedOPEndpoint bool
	withProviderCA        string
	withProviderTimeout   time.Duration
	withLogger            hclog.Logger
}

// configDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func configDefaults() configOptions {
	return configOptions{}
}

// getConfigOpts gets the defaults and applies the opt overrides passed in.
func getConfigOpts(opt ...Option) configOptions {
	opts := configDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithVerifyEndpoint provides an optional separate endpoint for direct
// verification requests, for providers that do not accept them on the
// authentication endpoint.
func WithVerifyEndpoint(endpoint string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withVerifyEndpoint = endpoint
		}
	}
}

// WithTrustedOPEndpoint makes Verify honor an https openid.op_endpoint
// named by the callback instead of the configured verification endpoint.
func WithTrustedOPEndpoint() Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withTrustedOPEndpoint = true
		}
	}
}

// WithProviderCA provides an optional CA cert for the provider's config
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProviderCA = cert
		}
	}
}

// WithProviderTimeout provides an optional timeout for requests to the
// provider, overriding DefaultProviderTimeout.
func WithProviderTimeout(d time.Duration) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withProviderTimeout = d
		}
	}
}

// WithLogger provides an optional logger for the provider's config
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*configOptions); ok {
			o.withLogger = l
		}
	}
}
