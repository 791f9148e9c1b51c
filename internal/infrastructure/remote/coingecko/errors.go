package coingecko

import "errors"

var (
	ErrMalformedPayload = errors.New("malformed coingecko payload")
	ErrUnexpectedStatus = errors.New("unexpected coingecko status")
	ErrRateLimitWait    = errors.New("local rate limit wait exceeded")
)
