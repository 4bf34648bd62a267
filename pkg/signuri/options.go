package signuri

import (
	"fmt"
	"log/slog"
)

// Option configures a Signer.
type Option func(*Signer)

// WithDigestLength sets how many trailing hex characters of the digest are kept.
// Panics outside [1, MaxDigestLength]: a signer and its verifiers must agree on
// the value, so a bad one should stop startup.
func WithDigestLength(n int) Option {
	if n < 1 || n > MaxDigestLength {
		panic(fmt.Sprintf("WithDigestLength: length must be between 1 and %d, got %d", MaxDigestLength, n))
	}
	return func(s *Signer) { s.digestLength = n }
}

// WithAlgorithm sets the digest construction. Panics for unknown algorithms.
func WithAlgorithm(a Algorithm) Option {
	if !a.valid() {
		panic(fmt.Sprintf("WithAlgorithm: unknown algorithm %q", a))
	}
	return func(s *Signer) { s.algorithm = a }
}

// WithJSONFlavor sets the payload serialization flavour. Panics for unknown flavours.
func WithJSONFlavor(f JSONFlavor) Option {
	if !f.valid() {
		panic(fmt.Sprintf("WithJSONFlavor: unknown flavor %q", f))
	}
	return func(s *Signer) { s.flavor = f }
}

// WithLogger receives verification failures at debug level. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Signer) {
		if l != nil {
			s.logger = l
		}
	}
}
