package signuri

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopello/urisign/pkg/logger"
)

// Signer signs payloads into URIs and verifies them. It holds no mutable
// state and is safe for concurrent use.
type Signer struct {
	secret       string
	param        string
	digestLength int
	algorithm    Algorithm
	flavor       JSONFlavor
	logger       *slog.Logger
}

// New returns a Signer for the given secret and query parameter name.
// An empty secret is accepted; it only weakens the signature.
func New(secret, param string, opts ...Option) *Signer {
	s := &Signer{
		secret:       secret,
		param:        param,
		digestLength: DefaultDigestLength,
		algorithm:    AlgorithmConcat,
		flavor:       JSONFlavorGo,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Param returns the query parameter name the signer writes and reads.
func (s *Signer) Param() string { return s.param }

// Token serializes payload and returns digest.encodedPayload.
func (s *Signer) Token(payload any) (string, error) {
	data, err := marshalPayload(payload, s.flavor)
	if err != nil {
		return "", errors.Join(ErrEncodePayload, err)
	}
	encoded := encodeSegment(data)
	return digest(s.algorithm, s.secret, encoded, s.digestLength) + "." + encoded, nil
}

// Sign appends param=token for payload to uri.
func (s *Signer) Sign(uri string, payload any) (string, error) {
	if !validParam(s.param) {
		return "", ErrInvalidParam
	}
	token, err := s.Token(payload)
	if err != nil {
		return "", err
	}
	return appendParam(uri, s.param, token), nil
}

// ParseToken authenticates token and returns its payload, or the reason it
// was rejected. The signed JSON is authenticated as it was serialized, so any
// T that can hold the payload works, whatever key order it would emit. The
// zero value of T is returned on any error.
func ParseToken[T any](s *Signer, token string) (T, error) {
	var zero T

	_, encoded, ok := strings.Cut(token, ".")
	if !ok {
		return zero, ErrMalformedToken
	}

	data, err := decodeSegment(encoded)
	if err != nil {
		return zero, errors.Join(ErrInvalidEncoding, err)
	}

	var raw json.RawMessage
	if err := unmarshalPayload(data, &raw); err != nil {
		return zero, errors.Join(ErrInvalidPayload, err)
	}

	expected, err := s.Token(raw)
	if err != nil {
		return zero, errors.Join(ErrInvalidPayload, err)
	}
	if !hmac.Equal([]byte(expected), []byte(token)) {
		return zero, ErrSignatureMismatch
	}

	var payload T
	if err := unmarshalPayload(raw, &payload); err != nil {
		return zero, errors.Join(ErrInvalidPayload, err)
	}
	return payload, nil
}

// Verify extracts and authenticates the payload carried by uri. Every
// failure, including a missing parameter, yields ok=false.
func Verify[T any](s *Signer, uri string) (T, bool) {
	return verifyContext[T](context.Background(), s, uri)
}

func verifyContext[T any](ctx context.Context, s *Signer, uri string) (T, bool) {
	var zero T
	token, ok := lookupParam(uri, s.param)
	if !ok {
		s.logger.DebugContext(ctx, "signed uri rejected",
			logger.Param(s.param),
			logger.Error(ErrMissingParam),
		)
		return zero, false
	}

	payload, err := ParseToken[T](s, token)
	if err != nil {
		s.logger.DebugContext(ctx, "signed uri rejected",
			logger.Param(s.param),
			logger.Error(err),
		)
		return zero, false
	}
	return payload, true
}

// SignURI signs payload with secret and appends it to uri as param. Default
// options give a 10 character sha256(secret||payload) digest.
func SignURI(uri, secret, param string, payload any, opts ...Option) (string, error) {
	return New(secret, param, opts...).Sign(uri, payload)
}

// VerifyURI returns the authenticated payload stored in param of uri. The
// options must match those used to sign.
func VerifyURI[T any](uri, secret, param string, opts ...Option) (T, bool) {
	return Verify[T](New(secret, param, opts...), uri)
}
