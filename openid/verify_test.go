package openid

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProviderFor(t *testing.T, tp *TestProvider, opt ...Option) *Provider {
	t.Helper()
	require := require.New(t)
	c, err := NewConfig(tp.URL(), opt...)
	require.NoError(err)
	p, err := NewProvider(c)
	require.NoError(err)
	return p
}

func TestProvider_Verify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid-assertion-with-email", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)

		callback := TestCallbackValues(t, "https://id.example.com/u/1", "ext1", map[string]string{
			"email": "u@x.com",
		})
		profile, err := p.Verify(ctx, callback)
		require.NoError(err)
		require.NotNil(profile)
		assert.Equal("u@x.com", profile.Email)
		assert.Equal("u", profile.Name)
		assert.Equal("https://id.example.com/u/1", profile.Identity)
		assert.Empty(profile.FirstName)
		assert.Empty(profile.LastName)
	})

	t.Run("verification-request-replays-params", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)

		callback := TestCallbackValues(t, "https://id.example.com/u/1", "ext1", nil)
		callback.Set("openid.sig", "abc123")
		_, err := p.Verify(ctx, callback)
		require.NoError(err)

		sent := tp.LastVerifyRequest()
		require.NotNil(sent)
		assert.Equal("check_authentication", sent.Get("openid.mode"))
		assert.Equal("abc123", sent.Get("openid.sig"))
		assert.Equal("https://id.example.com/u/1", sent.Get("openid.claimed_id"))
		// the caller's values are untouched
		assert.Equal("id_res", callback.Get("openid.mode"))
	})

	t.Run("rejected-assertion-is-not-an-error", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		tp.SetReplyValid(false)
		p := testProviderFor(t, tp)

		profile, err := p.Verify(ctx, TestCallbackValues(t, "https://id.example.com/u/1", "", nil))
		require.NoError(err)
		assert.Nil(profile)
	})

	t.Run("non-200-is-not-an-error", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("is_valid:true\n"))
		}))
		t.Cleanup(srv.Close)
		c, err := NewConfig(srv.URL)
		require.NoError(err)
		p, err := NewProvider(c)
		require.NoError(err)

		profile, err := p.Verify(ctx, url.Values{"openid.mode": {"id_res"}})
		require.NoError(err)
		assert.Nil(profile)
	})

	t.Run("unreachable-provider-is-an-error", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)
		tp.Stop()

		profile, err := p.Verify(ctx, url.Values{"openid.mode": {"id_res"}})
		require.Error(err)
		assert.Nil(profile)
		assert.Truef(errors.Is(err, ErrProviderUnavailable), "want ErrProviderUnavailable got: %q", err)
	})

	t.Run("nil-callback", func(t *testing.T) {
		assert := assert.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)
		_, err := p.Verify(ctx, nil)
		assert.Truef(errors.Is(err, ErrNilParameter), "want ErrNilParameter got: %q", err)
	})

	t.Run("no-ax-namespace-still-identifies", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)

		callback := url.Values{
			"openid.mode":       {"id_res"},
			"openid.claimed_id": {"https://id.example.com/u/2"},
		}
		profile, err := p.Verify(ctx, callback)
		require.NoError(err)
		require.NotNil(profile)
		assert.Equal("https://id.example.com/u/2", profile.Identity)
		assert.Empty(profile.Email)
		assert.Empty(profile.Name)
		assert.Empty(profile.Locale)
		assert.Empty(profile.Username)
	})

	t.Run("first-and-last-name-join", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		p := testProviderFor(t, tp)

		callback := TestCallbackValues(t, "https://id.example.com/u/3", "ax", map[string]string{
			"firstname": "Ann",
			"lastname":  "Lee",
		})
		profile, err := p.Verify(ctx, callback)
		require.NoError(err)
		require.NotNil(profile)
		assert.Equal("Ann Lee", profile.Name)
		assert.Equal("Ann", profile.FirstName)
		assert.Equal("Lee", profile.LastName)
	})

	t.Run("op-endpoint-pinned-by-default", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		other := StartTestProvider(t)
		p := testProviderFor(t, tp)

		callback := TestCallbackValues(t, "https://id.example.com/u/4", "", nil)
		callback.Set("openid.op_endpoint", other.URL())
		_, err := p.Verify(ctx, callback)
		require.NoError(err)
		assert.NotNil(tp.LastVerifyRequest())
		assert.Nil(other.LastVerifyRequest())
	})

	t.Run("op-endpoint-honored-when-trusted", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTLSTestProvider(t)
		other := StartTLSTestProvider(t)
		c, err := NewConfig(tp.URL(),
			WithTrustedOPEndpoint(),
			WithProviderCA(tp.CACert()+other.CACert()),
		)
		require.NoError(err)
		p, err := NewProvider(c)
		require.NoError(err)

		callback := TestCallbackValues(t, "https://id.example.com/u/5", "", nil)
		callback.Set("openid.op_endpoint", other.URL())
		_, err = p.Verify(ctx, callback)
		require.NoError(err)
		assert.Nil(tp.LastVerifyRequest())
		assert.NotNil(other.LastVerifyRequest())
	})

	t.Run("non-https-op-endpoint-ignored-even-when-trusted", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tp := StartTestProvider(t)
		other := StartTestProvider(t)
		c, err := NewConfig(tp.URL(), WithTrustedOPEndpoint())
		require.NoError(err)
		p, err := NewProvider(c)
		require.NoError(err)

		callback := TestCallbackValues(t, "https://id.example.com/u/6", "", nil)
		callback.Set("openid.op_endpoint", other.URL())
		_, err = p.Verify(ctx, callback)
		require.NoError(err)
		assert.NotNil(tp.LastVerifyRequest())
		assert.Nil(other.LastVerifyRequest())
	})
}

func TestProvider_Verify_RoundTrip(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	tp := StartTestProvider(t)
	p := testProviderFor(t, tp)

	// build a request for two attributes
	v, err := p.AuthRequestValues("https://app.example.com/login/", "/callback", []string{AttributeEmail, AttributeUsername})
	require.NoError(err)
	require.Equal("email,username", v.Get("openid.ax.required"))

	// synthesize the provider's response for exactly those attributes,
	// using its own alias and suffix naming
	callback := url.Values{
		"openid.mode":           {"id_res"},
		"openid.claimed_id":     {"https://id.example.com/u/9"},
		"openid.ns.ext1":        {AXNamespace},
		"openid.ext1.type.a1":   {v.Get("openid.ax.type.email")},
		"openid.ext1.value.a1":  {"u@x.com"},
		"openid.ext1.type.frn":  {v.Get("openid.ax.type.username")},
		"openid.ext1.value.frn": {"uxer"},
	}
	profile, err := p.Verify(ctx, callback)
	require.NoError(err)
	require.NotNil(profile)
	assert.Equal("u@x.com", profile.Email)
	assert.Equal("uxer", profile.Username)
	assert.Empty(profile.FirstName)
	assert.Empty(profile.LastName)
	assert.Empty(profile.Locale)
	// name falls back to the email local part
	assert.Equal("u", profile.Name)
}

func Test_isValidAssertion(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	assert.True(isValidAssertion([]byte("ns:http://specs.openid.net/auth/2.0\nis_valid:true\n")))
	assert.False(isValidAssertion([]byte("ns:http://specs.openid.net/auth/2.0\nis_valid:false\n")))
	assert.False(isValidAssertion([]byte("")))
	assert.False(isValidAssertion([]byte("is_valid:truemaybe\n")))
}
