package openid

import (
	"bytes"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestProvider is a local server that answers OpenID 2.0 direct verification
// requests, which makes writing callback tests much easier. It confirms
// every assertion until SetReplyValid(false) is called.
type TestProvider struct {
	httpServer *httptest.Server
	caCert     string

	mu          sync.Mutex
	replyValid  bool
	lastRequest url.Values

	t *testing.T
}

// StartTestProvider creates a disposable TestProvider. The server is stopped
// automatically when the test ends.
func StartTestProvider(t *testing.T) *TestProvider {
	t.Helper()
	p := &TestProvider{
		t:          t,
		replyValid: true,
	}
	p.httpServer = httptest.NewServer(p)
	t.Cleanup(p.httpServer.Close)
	return p
}

// StartTLSTestProvider creates a disposable TestProvider serving TLS with a
// self-signed certificate. Pass CACert to WithProviderCA so clients can
// verify it.
func StartTLSTestProvider(t *testing.T) *TestProvider {
	t.Helper()
	require := require.New(t)
	p := &TestProvider{
		t:          t,
		replyValid: true,
	}
	p.httpServer = httptest.NewUnstartedServer(p)
	p.httpServer.StartTLS()
	t.Cleanup(p.httpServer.Close)

	cert := p.httpServer.Certificate()
	var buf bytes.Buffer
	require.NoError(pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}))
	p.caCert = buf.String()
	return p
}

// CACert returns the PEM-encoded certificate of a TLS TestProvider, or ""
// for a plain one. Multiple certs may be concatenated into one
// WithProviderCA value.
func (p *TestProvider) CACert() string {
	return p.caCert
}

// Stop stops the running TestProvider.
func (p *TestProvider) Stop() {
	p.httpServer.Close()
}

// URL returns the provider's endpoint, suitable as both the auth and verify
// endpoint of a Config.
func (p *TestProvider) URL() string {
	return p.httpServer.URL
}

// SetReplyValid configures whether direct verification requests are answered
// with is_valid:true or is_valid:false.
func (p *TestProvider) SetReplyValid(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replyValid = ok
}

// LastVerifyRequest returns the form values of the most recent direct
// verification request received, or nil when none arrived yet.
func (p *TestProvider) LastVerifyRequest() url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRequest
}

// ServeHTTP implements the provider's direct verification endpoint.
func (p *TestProvider) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.t.Helper()
	require := require.New(p.t)
	require.NoError(req.ParseForm())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastRequest = req.PostForm

	if req.Method != http.MethodPost || req.PostForm.Get("openid.mode") != modeCheckAuthentication {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	fmt.Fprintf(w, "ns:%s\n", openIDNamespace)
	if p.replyValid {
		fmt.Fprint(w, "is_valid:true\n")
	} else {
		fmt.Fprint(w, "is_valid:false\n")
	}
}

// TestCallbackValues builds a synthetic provider callback carrying the given
// claimed identifier and AX attributes, keyed the way a provider would:
// namespace alias declaration plus a generated suffix per attribute. attrs
// is keyed by fetchable attribute name (firstname, fullname, lastname,
// email, language, username).
func TestCallbackValues(t *testing.T, claimedID, alias string, attrs map[string]string) url.Values {
	t.Helper()
	require := require.New(t)
	v := url.Values{}
	v.Set("openid.mode", "id_res")
	if claimedID != "" {
		v.Set("openid.claimed_id", claimedID)
	}
	if alias != "" {
		v.Set("openid.ns."+alias, AXNamespace)
	}
	i := 0
	for name, value := range attrs {
		uri, ok := axTypeURIs[name]
		require.Truef(ok, "unknown test attribute %q", name)
		i++
		suffix := fmt.Sprintf("a%d", i)
		v.Set("openid."+alias+".type."+suffix, uri)
		v.Set("openid."+alias+".value."+suffix, value)
	}
	return v
}
