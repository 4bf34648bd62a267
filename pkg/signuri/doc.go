// Package signuri embeds a tamper-evident JSON payload in a URI query
// parameter and recovers it again.
//
// A token has the form
//
//	<digest>.<base64url(json(payload))>
//
// where the digest is the trailing N lowercase hex characters (10 by default)
// of a SHA-256 over the secret and the encoded payload. The token is appended
// to the URI as paramName=token, joined with "?" when the URI has no query
// and "&" otherwise. The pair goes before a #fragment, not after it.
//
// Signing is deterministic: the same secret and payload always produce the
// same token. There is no timestamp or nonce. Callers that need expiry embed
// their own field in the payload and check it after verification succeeds.
//
// # Usage
//
//	import "github.com/shopello/urisign/pkg/signuri"
//
//	signed, err := signuri.SignURI("https://example.com/", "123456789", "clickdata", []int{1111, 2222})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// https://example.com/?clickdata=1077e65030.WzExMTEsMjIyMl0
//
//	ids, ok := signuri.VerifyURI[[]int](signed, "123456789", "clickdata")
//	if !ok {
//	    // missing, malformed or forged
//	}
//
// A Signer holds the secret, parameter name and wire settings for repeated
// use and is safe for concurrent use:
//
//	s := signuri.New(secret, "clickdata", signuri.WithAlgorithm(signuri.AlgorithmHMAC))
//	link, _ := s.Sign("https://example.com/r", payload)
//	p, ok := signuri.Verify[Payload](s, link)
//
// # Digest algorithms
//
// AlgorithmConcat hashes secret||payload and is wire compatible with tokens
// minted by the legacy PHP client. AlgorithmHMAC uses HMAC-SHA256 with the
// secret as key. Both produce the same token format; signer and verifier must
// agree on algorithm and digest length.
//
// # Payload decoding
//
// Verification re-signs the payload JSON as it was serialized and compares
// whole tokens before decoding into the caller's type, so key order and the
// fields T declares do not matter. Numbers decoded into interface values are
// kept as json.Number.
//
// JSONFlavorPHP mirrors PHP json_encode escaping ("\/" and \uXXXX for
// non-ASCII) so tokens from PHP signers with such payloads verify.
//
// # Error Handling
//
// SignURI fails only for unserializable payloads (ErrEncodePayload) or a
// parameter name that would need percent-encoding (ErrInvalidParam).
// VerifyURI and Verify never fail loudly: every problem collapses to ok=false.
// ParseToken returns the specific reason (ErrMalformedToken,
// ErrInvalidEncoding, ErrInvalidPayload, ErrSignatureMismatch).
package signuri
