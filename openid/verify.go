package openid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Verify confirms a provider callback by replaying its parameters to the
// provider with openid.mode overridden to check_authentication, then
// extracts the user's profile from the callback's Attribute Exchange values.
// The direct round trip is the anti-replay defense: a positive assertion
// cannot be forged without the provider confirming it.
//
// A nil Profile with a nil error means the provider rejected the assertion
// (or the user cancelled); callers must treat it as "not authenticated", not
// as a fault. An error is returned only when the provider could not be
// reached or the caller's input is invalid.
func (p *Provider) Verify(ctx context.Context, callback url.Values) (*Profile, error) {
	const op = "Provider.Verify"
	if ctx == nil {
		return nil, fmt.Errorf("%s: context is nil: %w", op, ErrNilParameter)
	}
	if callback == nil {
		return nil, fmt.Errorf("%s: callback values are nil: %w", op, ErrNilParameter)
	}

	form := url.Values{}
	for k, vals := range callback {
		for _, v := range vals {
			form.Add(k, v)
		}
	}
	form.Set("openid.mode", modeCheckAuthentication)

	endpoint := p.config.VerifyEndpoint
	if p.config.TrustOPEndpoint {
		if e := callback.Get("openid.op_endpoint"); e != "" {
			// only an https endpoint may override the configured one
			if u, err := url.Parse(e); err == nil && u.Scheme == "https" {
				endpoint = e
			} else if p.config.Logger != nil {
				p.config.Logger.Warn("ignoring non-https op_endpoint", "endpoint", e)
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: cannot build verification request for %s: %w", op, endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: verification request failed: %w: %v", op, ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading verification response failed: %w: %v", op, ErrProviderUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK || !isValidAssertion(body) {
		if p.config.Logger != nil {
			p.config.Logger.Warn("invalid OpenID response", "status", resp.StatusCode, "body", string(body))
		}
		return nil, nil
	}
	return buildProfile(callback), nil
}

// isValidAssertion scans the key-value response of a direct verification
// request for the is_valid:true line. The key-value form is line oriented
// (one key:value pair per line), so a token sharing a line with other text
// does not count as a positive assertion.
func isValidAssertion(body []byte) bool {
	for _, line := range strings.Split(string(body), "\n") {
		if strings.TrimSpace(line) == "is_valid:true" {
			return true
		}
	}
	return false
}
