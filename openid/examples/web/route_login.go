package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/fedauth/openid2/openid"
	"github.com/fedauth/openid2/openid/callback"
	"github.com/hashicorp/go-hclog"
)

// LoginHandler starts the authentication attempt, asking the provider for
// the default attribute set.
func LoginHandler(p *openid.Provider, logger hclog.Logger) http.HandlerFunc {
	return callback.Login(p, "/callback", openid.DefaultAttributes(),
		func(e error, w http.ResponseWriter, req *http.Request) {
			logger.Error("login redirect failed", "err", e)
			http.Error(w, "login failed", http.StatusInternalServerError)
		})
}

// LogoutHandler clears the session and redirects home.
func LogoutHandler(sc *sessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sc.Clear(w, req)
		http.Redirect(w, req, "/", http.StatusFound)
	}
}

// RequireAuth gates a route on a valid session, preserving the requested URL
// so the callback can redirect back to it after login.
func RequireAuth(sc *sessionCache, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !openid.IsAuthenticated(sc.Get(req)) {
			http.Redirect(w, req, "/login/?next="+url.QueryEscape(req.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// SecretHandler is the guarded page.
func SecretHandler(sc *sessionCache) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		p := sc.Get(req)
		fmt.Fprintf(w, "hello %s (%s)\n", p.Name, p.Email)
	}
}
