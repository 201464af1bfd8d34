package openid

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Attribute names that can be requested from the provider via Attribute
// Exchange. AttributeName is a compound: requesting it asks the provider for
// the first, full and last name attributes.
const (
	AttributeName     = "name"
	AttributeEmail    = "email"
	AttributeLanguage = "language"
	AttributeUsername = "username"
)

// DefaultAttributes returns the attribute set requested when a caller has no
// reason to ask for less.
func DefaultAttributes() []string {
	return []string{AttributeName, AttributeEmail, AttributeLanguage, AttributeUsername}
}

// axschema.org type URIs for the attributes of interest.
const (
	axTypeFirstName = "http://axschema.org/namePerson/first"
	axTypeFullName  = "http://axschema.org/namePerson"
	axTypeLastName  = "http://axschema.org/namePerson/last"
	axTypeEmail     = "http://axschema.org/contact/email"
	axTypeLanguage  = "http://axschema.org/pref/language"
	axTypeUsername  = "http://axschema.org/namePerson/friendly"
)

// axTypeURIs maps every fetchable attribute, including the parts of the
// "name" expansion, to its type URI.
var axTypeURIs = map[string]string{
	"firstname":       axTypeFirstName,
	"fullname":        axTypeFullName,
	"lastname":        axTypeLastName,
	AttributeEmail:    axTypeEmail,
	AttributeLanguage: axTypeLanguage,
	AttributeUsername: axTypeUsername,
}

// expandAttributes validates the requested attribute names and expands the
// compound AttributeName into firstname, fullname and lastname. Every
// unknown name is reported, not just the first. The returned list is
// deterministic: the name expansion first, remaining attributes sorted.
func expandAttributes(askFor []string) ([]string, error) {
	const op = "openid.expandAttributes"
	var invalid *multierror.Error
	seen := map[string]bool{}
	expandName := false
	var rest []string
	for _, name := range askFor {
		if seen[name] {
			continue
		}
		seen[name] = true
		switch name {
		case AttributeName:
			expandName = true
		case AttributeEmail, AttributeLanguage, AttributeUsername:
			rest = append(rest, name)
		default:
			invalid = multierror.Append(invalid, fmt.Errorf("%s: %q: %w", op, name, ErrUnknownAttribute))
		}
	}
	if err := invalid.ErrorOrNil(); err != nil {
		return nil, err
	}
	sort.Strings(rest)
	if expandName {
		rest = append([]string{"firstname", "fullname", "lastname"}, rest...)
	}
	return rest, nil
}
