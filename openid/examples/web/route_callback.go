package main

import (
	"net/http"

	"github.com/fedauth/openid2/openid"
	"github.com/fedauth/openid2/openid/callback"
	"github.com/hashicorp/go-hclog"
)

// CallbackHandler verifies the provider's response, stores the profile in
// the session and redirects to the page the user originally requested.
func CallbackHandler(p *openid.Provider, sc *sessionCache, logger hclog.Logger) http.HandlerFunc {
	success := func(profile *openid.Profile, w http.ResponseWriter, req *http.Request) {
		if err := sc.Set(w, profile); err != nil {
			logger.Error("unable to store session", "err", err)
			http.Error(w, "login failed", http.StatusInternalServerError)
			return
		}
		next := req.FormValue("next")
		if next == "" {
			next = "/"
		}
		http.Redirect(w, req, next, http.StatusFound)
	}
	failure := func(e error, w http.ResponseWriter, req *http.Request) {
		if e == nil {
			// provider rejected the assertion or the user cancelled
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		logger.Error("callback verification failed", "err", e)
		http.Error(w, "login failed", http.StatusInternalServerError)
	}
	return callback.Callback(p, success, failure)
}
