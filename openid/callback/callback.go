package callback

import (
	"fmt"
	"net/http"

	"github.com/fedauth/openid2/openid"
)

// Callback creates a handler for the provider's response to an
// authentication attempt. It compares the nonce cookie set by Login against
// the nonce mirrored in the return URL, verifies the response with the
// provider, and hands the resulting profile to sFn. Login always sets both
// halves of the nonce, so a callback missing either one is rejected before
// any verification request is made. A rejected assertion (user cancelled,
// invalid signature) invokes eFn with a nil error.
func Callback(p *openid.Provider, sFn SuccessResponseFunc, eFn ErrorResponseFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		const op = "callback.Callback"
		v := req.URL.Query()

		c, err := req.Cookie(NonceCookie)
		if err != nil || c.Value == "" || c.Value != v.Get(openid.NonceParam) {
			eFn(fmt.Errorf("%s: login nonce missing or mismatched: %w", op, openid.ErrInvalidParameter), w, req)
			return
		}

		profile, err := p.Verify(req.Context(), v)
		if err != nil {
			eFn(fmt.Errorf("%s: %w", op, err), w, req)
			return
		}
		if profile == nil {
			// negative result, not a fault
			eFn(nil, w, req)
			return
		}
		sFn(profile, w, req)
	}
}
