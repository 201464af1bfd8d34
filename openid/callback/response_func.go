package callback

import (
	"net/http"

	"github.com/fedauth/openid2/openid"
)

// SuccessResponseFunc is used by handlers to create a http response when an
// authentication attempt succeeds.
//
// The profile is the normalized user data extracted from the verified
// provider response. The function should use the http.ResponseWriter to send
// back whatever content (headers, html, JSON, etc) it wishes to the client
// that originated the flow; typically it stores the profile in a session and
// redirects.
type SuccessResponseFunc func(p *openid.Profile, w http.ResponseWriter, req *http.Request)

// ErrorResponseFunc is used by handlers to create a http response when an
// authentication attempt fails.
//
// e is nil when the provider simply rejected the assertion (for example the
// user cancelled the login); otherwise it carries the error raised while
// processing the request.
type ErrorResponseFunc func(e error, w http.ResponseWriter, req *http.Request)
