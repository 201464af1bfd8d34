package openid

import (
	"net/url"
	"strings"
)

// Profile is the normalized user data extracted from a verified callback.  A
// field is the zero value when the provider did not return the corresponding
// attribute; Identity (the claimed identifier) is the stable identity string
// and the only field a relying party can count on.
type Profile struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Username  string `json:"username,omitempty"`
	Identity  string `json:"identity,omitempty"`
}

// IsAuthenticated reports whether a stored profile represents a verified
// login. It is the predicate route guards should build on.
func IsAuthenticated(p *Profile) bool {
	return p != nil && p.Identity != ""
}

// buildProfile assembles a Profile from a verified callback's values.
func buildProfile(callback url.Values) *Profile {
	alias := axAlias(callback)
	p := &Profile{
		FirstName: axValue(callback, alias, axTypeFirstName),
		LastName:  axValue(callback, alias, axTypeLastName),
		Email:     axValue(callback, alias, axTypeEmail),
		Username:  axValue(callback, alias, axTypeUsername),
		Locale:    strings.ToLower(axValue(callback, alias, axTypeLanguage)),
		Identity:  callback.Get("openid.claimed_id"),
	}
	switch full := axValue(callback, alias, axTypeFullName); {
	case full != "":
		p.Name = full
	case p.FirstName != "" || p.LastName != "":
		p.Name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	case p.Email != "":
		p.Name = p.Email
		if i := strings.IndexByte(p.Email, '@'); i >= 0 {
			p.Name = p.Email[:i]
		}
	}
	return p
}

// axAlias returns the namespace alias the provider chose for the Attribute
// Exchange extension, or "" when the callback carries none. A response
// malformed with duplicate declarations yields whichever matches first.
func axAlias(callback url.Values) string {
	for k, vals := range callback {
		if !strings.HasPrefix(k, "openid.ns.") {
			continue
		}
		if len(vals) > 0 && vals[0] == AXNamespace {
			return strings.TrimPrefix(k, "openid.ns.")
		}
	}
	return ""
}

// axValue resolves an attribute by its type URI. AX lets the provider pick
// an arbitrary suffix per attribute, so the declaration
// openid.<alias>.type.<suffix> is located by value first, then the attribute
// is read from the openid.<alias>.value.<suffix> slot it names. Missing
// declarations or value slots yield "".
func axValue(callback url.Values, alias, typeURI string) string {
	if alias == "" {
		return ""
	}
	prefix := "openid." + alias + ".type."
	for k, vals := range callback {
		if !strings.HasPrefix(k, prefix) || len(vals) == 0 || vals[0] != typeURI {
			continue
		}
		suffix := strings.TrimPrefix(k, prefix)
		return callback.Get("openid." + alias + ".value." + suffix)
	}
	return ""
}
