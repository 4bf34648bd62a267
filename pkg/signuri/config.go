package signuri

import "fmt"

// Config describes a Signer loaded from the environment.
type Config struct {
	Secret       string `env:"SIGNURI_SECRET"`                        // Secret shared with every verifier. Never logged.
	Param        string `env:"SIGNURI_PARAM" envDefault:"clickdata"`  // Param is the query parameter carrying the token.
	DigestLength int    `env:"SIGNURI_DIGEST_LENGTH" envDefault:"10"` // DigestLength is the number of trailing hex characters kept.
	Algorithm    string `env:"SIGNURI_ALGORITHM" envDefault:"concat"` // Algorithm is "concat" or "hmac".
	JSONFlavor   string `env:"SIGNURI_JSON_FLAVOR" envDefault:"go"`   // JSONFlavor is "go" or "php".
}

// NewFromConfig validates cfg and builds a Signer. Options are applied after
// the config values.
func NewFromConfig(cfg Config, opts ...Option) (*Signer, error) {
	if !validParam(cfg.Param) {
		return nil, fmt.Errorf("%w: param %q", ErrInvalidConfig, cfg.Param)
	}

	configOpts := make([]Option, 0, 3+len(opts))

	if cfg.DigestLength != 0 {
		if cfg.DigestLength < 1 || cfg.DigestLength > MaxDigestLength {
			return nil, fmt.Errorf("%w: digest length %d", ErrInvalidConfig, cfg.DigestLength)
		}
		configOpts = append(configOpts, WithDigestLength(cfg.DigestLength))
	}
	if cfg.Algorithm != "" {
		alg := Algorithm(cfg.Algorithm)
		if !alg.valid() {
			return nil, fmt.Errorf("%w: algorithm %q", ErrInvalidConfig, cfg.Algorithm)
		}
		configOpts = append(configOpts, WithAlgorithm(alg))
	}
	if cfg.JSONFlavor != "" {
		flavor := JSONFlavor(cfg.JSONFlavor)
		if !flavor.valid() {
			return nil, fmt.Errorf("%w: json flavor %q", ErrInvalidConfig, cfg.JSONFlavor)
		}
		configOpts = append(configOpts, WithJSONFlavor(flavor))
	}

	configOpts = append(configOpts, opts...)

	return New(cfg.Secret, cfg.Param, configOpts...), nil
}
