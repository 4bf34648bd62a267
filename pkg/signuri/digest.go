package signuri

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Algorithm selects the keyed digest construction.
type Algorithm string

const (
	// AlgorithmConcat is sha256(secret || encodedPayload), the legacy construction.
	AlgorithmConcat Algorithm = "concat"
	// AlgorithmHMAC is HMAC-SHA256 keyed with the secret over encodedPayload.
	AlgorithmHMAC Algorithm = "hmac"
)

const (
	// DefaultDigestLength is the number of trailing hex characters kept from the digest.
	DefaultDigestLength = 10
	// MaxDigestLength keeps the full SHA-256 digest.
	MaxDigestLength = sha256.Size * 2
)

func (a Algorithm) valid() bool {
	return a == AlgorithmConcat || a == AlgorithmHMAC
}

// digest returns the last n lowercase hex characters of the keyed SHA-256
// over encoded. There is no separator between secret and encoded.
func digest(alg Algorithm, secret, encoded string, n int) string {
	var sum []byte
	if alg == AlgorithmHMAC {
		h := hmac.New(sha256.New, []byte(secret))
		h.Write([]byte(encoded))
		sum = h.Sum(nil)
	} else {
		h := sha256.New()
		h.Write([]byte(secret))
		h.Write([]byte(encoded))
		sum = h.Sum(nil)
	}
	full := hex.EncodeToString(sum)
	return full[len(full)-n:]
}
