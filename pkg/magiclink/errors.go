package magiclink

import "errors"

var (
	ErrLinkInvalid     = errors.New("magiclink: invalid or unknown token")
	ErrLinkExpired     = errors.New("magiclink: link expired")
	ErrLinkAlreadyUsed = errors.New("magiclink: link already used")
	ErrDeliveryFailed  = errors.New("magiclink: failed to deliver login link")
)
