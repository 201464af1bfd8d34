package openid

import (
	"errors"
)

var (
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrNilParameter        = errors.New("nil parameter")
	ErrInvalidCACert       = errors.New("invalid CA certificate")
	ErrUnknownAttribute    = errors.New("unknown attribute")
	ErrProviderUnavailable = errors.New("provider unavailable")
)
