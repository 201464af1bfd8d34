package main

import (
	"net/http"
	"sync"

	"github.com/fedauth/openid2/openid"
)

const sessionCookie = "web_session"

// sessionCache is an in-memory session store keyed by a random cookie value.
// A real application would use a server-side session layer; this is just
// enough to demo the flow.
type sessionCache struct {
	m sync.Mutex
	c map[string]*openid.Profile
}

func newSessionCache() *sessionCache {
	return &sessionCache{
		c: map[string]*openid.Profile{},
	}
}

// Get returns the profile for the request's session, or nil.
func (sc *sessionCache) Get(req *http.Request) *openid.Profile {
	c, err := req.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	sc.m.Lock()
	defer sc.m.Unlock()
	return sc.c[c.Value]
}

// Set stores the profile under a fresh session id and sets the cookie.
func (sc *sessionCache) Set(w http.ResponseWriter, p *openid.Profile) error {
	id, err := openid.NewNonce()
	if err != nil {
		return err
	}
	sc.m.Lock()
	sc.c[id] = p
	sc.m.Unlock()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return nil
}

// Clear drops the request's session.
func (sc *sessionCache) Clear(w http.ResponseWriter, req *http.Request) {
	if c, err := req.Cookie(sessionCookie); err == nil {
		sc.m.Lock()
		delete(sc.c, c.Value)
		sc.m.Unlock()
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
