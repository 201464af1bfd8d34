package callback

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/fedauth/openid2/openid"
)

// NonceCookie is the cookie that mirrors the login nonce appended to the
// return URL. Callback compares the two to reject logins the user never
// started.
const NonceCookie = "openid_nonce"

// Login creates a handler that starts an authentication attempt by
// redirecting the user to the provider. callbackURI may be relative; it is
// resolved against the request URL. askFor names the attributes to request
// (see openid.DefaultAttributes). A "next" query parameter on the login
// request is carried through the provider round trip so the callback can
// redirect to the originally requested page.
func Login(p *openid.Provider, callbackURI string, askFor []string, eFn ErrorResponseFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		const op = "callback.Login"
		nonce, err := openid.NewNonce()
		if err != nil {
			eFn(fmt.Errorf("%s: %w", op, err), w, req)
			return
		}
		cb := callbackURI
		if next := req.FormValue("next"); next != "" {
			u, err := url.Parse(callbackURI)
			if err != nil {
				eFn(fmt.Errorf("%s: cannot parse callback URI %q: %w", op, callbackURI, err), w, req)
				return
			}
			q := u.Query()
			q.Set("next", next)
			u.RawQuery = q.Encode()
			cb = u.String()
		}
		authURL, err := p.AuthURL(requestURL(req), cb, askFor, openid.WithNonce(nonce))
		if err != nil {
			eFn(fmt.Errorf("%s: %w", op, err), w, req)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     NonceCookie,
			Value:    nonce,
			Path:     "/",
			HttpOnly: true,
		})
		http.Redirect(w, req, authURL, http.StatusFound)
	}
}

// requestURL reconstructs the URL the client requested. The scheme is not on
// the wire for plain HTTP serving, so it is inferred from the connection.
func requestURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + req.Host + req.URL.RequestURI()
}
