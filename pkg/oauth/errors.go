package oauth

import (
	"errors"
	"fmt"
)

var (
	// ErrExchangeFailed covers every way the provider exchange can go wrong:
	// a rejected code, a non-success token response, or a malformed identity
	// token.
	ErrExchangeFailed = errors.New("oauth: authorization code exchange failed")

	// ErrMissingIDToken is the specific exchange failure where the token
	// response carries no id_token field.
	ErrMissingIDToken = fmt.Errorf("%w: provider response has no id_token", ErrExchangeFailed)
)
