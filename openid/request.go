package openid

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// AuthRequestValues builds the OpenID 2.0 authentication request parameters
// for a redirect to the provider. callbackURI may be relative; it is
// resolved against currentURL to form the absolute openid.return_to value,
// and openid.realm is always the site root of that URL. askFor names the
// Attribute Exchange attributes to request (see DefaultAttributes); when it
// is empty no AX parameters are emitted.
//
// Supported options: WithNonce, WithUILocales.
func (p *Provider) AuthRequestValues(currentURL, callbackURI string, askFor []string, opt ...Option) (url.Values, error) {
	const op = "Provider.AuthRequestValues"
	opts := getReqOpts(opt...)
	current, err := url.Parse(currentURL)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot parse current URL %q: %w", op, currentURL, err)
	}
	callback, err := url.Parse(callbackURI)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot parse callback URI %q: %w", op, callbackURI, err)
	}
	returnTo := current.ResolveReference(callback)
	if opts.withNonce != "" {
		q := returnTo.Query()
		q.Set(NonceParam, opts.withNonce)
		returnTo.RawQuery = q.Encode()
	}
	realm := &url.URL{Scheme: returnTo.Scheme, Host: returnTo.Host, Path: "/"}

	v := url.Values{}
	v.Set("openid.ns", openIDNamespace)
	v.Set("openid.claimed_id", identifierSelect)
	v.Set("openid.identity", identifierSelect)
	v.Set("openid.return_to", returnTo.String())
	v.Set("openid.realm", realm.String())
	v.Set("openid.mode", modeCheckIDSetup)

	if len(askFor) > 0 {
		attrs, err := expandAttributes(askFor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		v.Set("openid.ns.ax", AXNamespace)
		v.Set("openid.ax.mode", "fetch_request")
		for _, a := range attrs {
			v.Set("openid.ax.type."+a, axTypeURIs[a])
		}
		v.Set("openid.ax.required", strings.Join(attrs, ","))
	}

	if len(opts.withUILocales) > 0 {
		tags := make([]string, 0, len(opts.withUILocales))
		for _, t := range opts.withUILocales {
			tags = append(tags, t.String())
		}
		v.Set("openid.ns.ui", uiNamespace)
		v.Set("openid.ui.lang", strings.Join(tags, " "))
	}
	return v, nil
}

// AuthURL will generate the URL the caller can use to redirect a user to the
// provider for authentication. After authentication, the provider redirects
// back to the resolved callback URI with the parameters Verify consumes.
func (p *Provider) AuthURL(currentURL, callbackURI string, askFor []string, opt ...Option) (string, error) {
	const op = "Provider.AuthURL"
	v, err := p.AuthRequestValues(currentURL, callbackURI, askFor, opt...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	// federated endpoints already carry a query
	sep := "?"
	if strings.Contains(p.config.AuthEndpoint, "?") {
		sep = "&"
	}
	return p.config.AuthEndpoint + sep + v.Encode(), nil
}

// reqOptions is the set of available options for auth request functions
type reqOptions struct {
	withNonce     string
	withUILocales []language.Tag
}

// reqDefaults is a handy way to get the defaults at runtime and during unit
// tests.
func reqDefaults() reqOptions {
	return reqOptions{}
}

// getReqOpts gets the defaults and applies the opt overrides passed in.
func getReqOpts(opt ...Option) reqOptions {
	opts := reqDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithNonce appends a relying-party nonce to the return URL as the
// NonceParam query parameter. Mirroring the nonce in a cookie and comparing
// the two on callback mitigates login CSRF. See NewNonce.
func WithNonce(nonce string) Option {
	return func(o interface{}) {
		if o, ok := o.(*reqOptions); ok {
			o.withNonce = nonce
		}
	}
}

// WithUILocales provides an optional list of language preferences for the
// provider's login page, sent via the OpenID User Interface extension.
func WithUILocales(locales ...language.Tag) Option {
	return func(o interface{}) {
		if o, ok := o.(*reqOptions); ok {
			o.withUILocales = locales
		}
	}
}
