package openid

import (
	"fmt"

	"github.com/hashicorp/go-uuid"
)

// NonceParam is the return URL query parameter set by WithNonce.
const NonceParam = "rp_nonce"

// NewNonce generates a random value suitable for the login CSRF mitigation:
// pass it to WithNonce when building the auth request, mirror it in a
// cookie, and compare the two when the callback arrives.
func NewNonce() (string, error) {
	const op = "openid.NewNonce"
	nonce, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate nonce: %w", op, err)
	}
	return nonce, nil
}
