package signuri

import "errors"

var (
	ErrInvalidParam      = errors.New("invalid query parameter name")
	ErrEncodePayload     = errors.New("failed to encode payload")
	ErrMissingParam      = errors.New("signed parameter not present")
	ErrMalformedToken    = errors.New("malformed token")
	ErrInvalidEncoding   = errors.New("invalid payload encoding")
	ErrInvalidPayload    = errors.New("invalid payload json")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrInvalidConfig     = errors.New("invalid signer configuration")
)
