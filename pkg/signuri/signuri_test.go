package signuri_test

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopello/urisign/pkg/signuri"
)

const (
	testSecret = "123456789"
	testParam  = "clickdata"
	testSigned = "https://example.com/?clickdata=1077e65030.WzExMTEsMjIyMl0"
)

type product struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

func TestSignURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uri     string
		payload any
		opts    []signuri.Option
		want    string
	}{
		{
			name:    "no query joins with question mark",
			uri:     "https://example.com/",
			payload: []int{1111, 2222},
			want:    testSigned,
		},
		{
			name:    "existing query joins with ampersand",
			uri:     "https://example.com/?a=1",
			payload: []int{1111, 2222},
			want:    "https://example.com/?a=1&clickdata=1077e65030.WzExMTEsMjIyMl0",
		},
		{
			name:    "empty query joins with ampersand",
			uri:     "https://example.com/?",
			payload: []int{1111, 2222},
			want:    "https://example.com/?&clickdata=1077e65030.WzExMTEsMjIyMl0",
		},
		{
			name:    "relative uri",
			uri:     "/r",
			payload: []int{1111, 2222},
			want:    "/r?clickdata=1077e65030.WzExMTEsMjIyMl0",
		},
		{
			name:    "parameter goes before fragment",
			uri:     "https://example.com/page#top",
			payload: []int{1111, 2222},
			want:    "https://example.com/page?clickdata=1077e65030.WzExMTEsMjIyMl0#top",
		},
		{
			name:    "twelve character digest",
			uri:     "https://example.com/",
			payload: []int{1111, 2222},
			opts:    []signuri.Option{signuri.WithDigestLength(12)},
			want:    "https://example.com/?clickdata=b61077e65030.WzExMTEsMjIyMl0",
		},
		{
			name:    "hmac digest",
			uri:     "https://example.com/",
			payload: []int{1111, 2222},
			opts:    []signuri.Option{signuri.WithAlgorithm(signuri.AlgorithmHMAC)},
			want:    "https://example.com/?clickdata=aef3deb9c8.WzExMTEsMjIyMl0",
		},
		{
			name:    "null payload",
			uri:     "https://example.com/",
			payload: nil,
			want:    "https://example.com/?clickdata=4098a252ce.bnVsbA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := signuri.SignURI(tt.uri, testSecret, testParam, tt.payload, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignURI_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty param", func(t *testing.T) {
		t.Parallel()
		_, err := signuri.SignURI("https://example.com/", testSecret, "", 1)
		assert.ErrorIs(t, err, signuri.ErrInvalidParam)
	})

	t.Run("param needing escaping", func(t *testing.T) {
		t.Parallel()
		_, err := signuri.SignURI("https://example.com/", testSecret, "click data", 1)
		assert.ErrorIs(t, err, signuri.ErrInvalidParam)
	})

	t.Run("unserializable payload", func(t *testing.T) {
		t.Parallel()
		_, err := signuri.SignURI("https://example.com/", testSecret, testParam, make(chan int))
		assert.ErrorIs(t, err, signuri.ErrEncodePayload)
	})
}

func TestVerifyURI(t *testing.T) {
	t.Parallel()

	t.Run("recovers payload", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[[]int](testSigned, testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, []int{1111, 2222}, got)
	})

	t.Run("interface payload keeps numbers", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[any](testSigned, testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, []any{json.Number("1111"), json.Number("2222")}, got)
	})

	t.Run("altered digest", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int]("https://example.com/?clickdata=10.WzExMTEsMjIyMl0", testSecret, testParam)
		assert.False(t, ok)
	})

	t.Run("missing parameter", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int]("https://example.com/", testSecret, testParam)
		assert.False(t, ok)
	})

	t.Run("other parameter only", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int]("https://example.com/?other=1077e65030.WzExMTEsMjIyMl0", testSecret, testParam)
		assert.False(t, ok)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int](testSigned, "987654321", testParam)
		assert.False(t, ok)
	})

	t.Run("mismatched digest length", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int](testSigned, testSecret, testParam, signuri.WithDigestLength(12))
		assert.False(t, ok)
	})

	t.Run("mismatched algorithm", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int](testSigned, testSecret, testParam, signuri.WithAlgorithm(signuri.AlgorithmHMAC))
		assert.False(t, ok)
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[[]int]("https://example.com/?clickdata=bogus&clickdata=1077e65030.WzExMTEsMjIyMl0", testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, []int{1111, 2222}, got)

		_, ok = signuri.VerifyURI[[]int]("https://example.com/?clickdata=1077e65030.WzExMTEsMjIyMl0&clickdata=bogus", testSecret, testParam)
		assert.False(t, ok)
	})

	t.Run("ignores fragment", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[[]int](testSigned+"#top", testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, []int{1111, 2222}, got)
	})

	t.Run("null payload", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[any]("https://example.com/?clickdata=4098a252ce.bnVsbA", testSecret, testParam)
		require.True(t, ok)
		assert.Nil(t, got)
	})

	t.Run("malformed values", func(t *testing.T) {
		t.Parallel()
		for _, uri := range []string{
			"https://example.com/?clickdata=",
			"https://example.com/?clickdata=1077e65030",
			"https://example.com/?clickdata=1077e65030.",
			"https://example.com/?clickdata=1077e65030.!!!",
			"https://example.com/?clickdata=1077e65030.WzExMTEsMjIyMl0.extra",
			"https://example.com/?clickdata=%zz",
		} {
			_, ok := signuri.VerifyURI[any](uri, testSecret, testParam)
			assert.False(t, ok, uri)
		}
	})
}

func TestVerify_TamperDetection(t *testing.T) {
	t.Parallel()

	s := signuri.New(testSecret, testParam)
	token := strings.TrimPrefix(testSigned, "https://example.com/?clickdata=")

	for i := range len(token) {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, ok := signuri.Verify[[]int](s, "https://example.com/?clickdata="+tampered)
		assert.False(t, ok, "tampered position %d: %s", i, tampered)
	}
}

func TestSignAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		payload product
		opts    []signuri.Option
	}{
		{
			name:    "defaults",
			secret:  "s3cret",
			payload: product{URL: "https://shop.example/p?id=1&x=<y>", Name: "Käse"},
		},
		{
			name:    "empty secret",
			secret:  "",
			payload: product{URL: "https://shop.example/", Name: "cheese"},
		},
		{
			name:    "empty payload",
			secret:  "s3cret",
			payload: product{},
		},
		{
			name:    "hmac full digest",
			secret:  "s3cret",
			payload: product{URL: "https://shop.example/", Name: "😀"},
			opts: []signuri.Option{
				signuri.WithAlgorithm(signuri.AlgorithmHMAC),
				signuri.WithDigestLength(signuri.MaxDigestLength),
			},
		},
		{
			name:    "php flavor",
			secret:  "s3cret",
			payload: product{URL: "https://shop.example/a/b", Name: "Käse 😀"},
			opts:    []signuri.Option{signuri.WithJSONFlavor(signuri.JSONFlavorPHP)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := signuri.New(tt.secret, testParam, tt.opts...)

			signed, err := s.Sign("https://example.com/r?src=mail", tt.payload)
			require.NoError(t, err)

			again, err := s.Sign("https://example.com/r?src=mail", tt.payload)
			require.NoError(t, err)
			assert.Equal(t, signed, again, "signing must be deterministic")

			got, ok := signuri.Verify[product](s, signed)
			require.True(t, ok)
			assert.Equal(t, tt.payload, got)
		})
	}
}

func TestSign_MapPayload(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"product_id": 42,
		"tags":       []string{"a", "b"},
		"meta":       map[string]any{"nested": true},
	}
	signed, err := signuri.SignURI("https://example.com/", testSecret, testParam, payload)
	require.NoError(t, err)

	got, ok := signuri.VerifyURI[map[string]any](signed, testSecret, testParam)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"product_id": json.Number("42"),
		"tags":       []any{"a", "b"},
		"meta":       map[string]any{"nested": true},
	}, got)
}

func TestJSONFlavorPHP(t *testing.T) {
	t.Parallel()

	t.Run("matches php json_encode output", func(t *testing.T) {
		t.Parallel()
		s := signuri.New("s3cret", testParam, signuri.WithJSONFlavor(signuri.JSONFlavorPHP))
		token, err := s.Token(product{URL: "https://shop.example/p?id=1", Name: "Käse"})
		require.NoError(t, err)
		assert.Equal(t, "bfff8b0f78.eyJ1cmwiOiJodHRwczpcL1wvc2hvcC5leGFtcGxlXC9wP2lkPTEiLCJuYW1lIjoiS1x1MDBlNHNlIn0", token)
	})

	t.Run("go flavor keeps raw characters", func(t *testing.T) {
		t.Parallel()
		s := signuri.New("s3cret", testParam)
		token, err := s.Token(product{URL: "https://shop.example/p?id=1", Name: "Käse"})
		require.NoError(t, err)
		assert.Equal(t, "ad8c491495.eyJ1cmwiOiJodHRwczovL3Nob3AuZXhhbXBsZS9wP2lkPTEiLCJuYW1lIjoiS8Okc2UifQ", token)
	})

	t.Run("astral runes use surrogate pairs", func(t *testing.T) {
		t.Parallel()
		s := signuri.New("k", testParam, signuri.WithJSONFlavor(signuri.JSONFlavorPHP))
		token, err := s.Token("😀")
		require.NoError(t, err)
		assert.Equal(t, "ad53a04de8.Ilx1ZDgzZFx1ZGUwMCI", token)

		got, err := signuri.ParseToken[string](s, token)
		require.NoError(t, err)
		assert.Equal(t, "😀", got)
	})
}

func TestVerify_RawMessagePreservesKeyOrder(t *testing.T) {
	t.Parallel()

	// Minted by a signer that does not sort object keys.
	uri := "https://example.com/?clickdata=9bcae214f4.eyJiIjoxLCJhIjoyfQ"
	s := signuri.New("s3cret", testParam)

	raw, ok := signuri.Verify[json.RawMessage](s, uri)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":2,"b":1}`, string(raw))
	assert.Equal(t, `{"b":1,"a":2}`, string(raw))

	got, ok := signuri.Verify[map[string]int](s, uri)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, got)
}

func TestVerify_ResultTypeDoesNotNeedSignedKeyOrder(t *testing.T) {
	t.Parallel()

	// Field order is not alphabetical, so maps would re-serialize differently.
	type link struct {
		URL       string `json:"url"`
		Name      string `json:"name"`
		ProductID int64  `json:"product_id"`
	}
	signed, err := signuri.SignURI("https://example.com/r", testSecret, testParam,
		link{URL: "https://shop.example/p/1", Name: "cheese", ProductID: 7})
	require.NoError(t, err)

	t.Run("as any", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[any](signed, testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"url":        "https://shop.example/p/1",
			"name":       "cheese",
			"product_id": json.Number("7"),
		}, got)
	})

	t.Run("as map", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[map[string]any](signed, testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, "cheese", got["name"])
	})

	t.Run("as struct with fewer fields", func(t *testing.T) {
		t.Parallel()
		got, ok := signuri.VerifyURI[product](signed, testSecret, testParam)
		require.True(t, ok)
		assert.Equal(t, product{URL: "https://shop.example/p/1", Name: "cheese"}, got)
	})

	t.Run("as a type the payload does not fit", func(t *testing.T) {
		t.Parallel()
		_, ok := signuri.VerifyURI[[]int](signed, testSecret, testParam)
		assert.False(t, ok)

		token := signed[strings.Index(signed, "=")+1:]
		_, err := signuri.ParseToken[[]int](signuri.New(testSecret, testParam), token)
		assert.ErrorIs(t, err, signuri.ErrInvalidPayload)
	})
}

func TestParseToken_Errors(t *testing.T) {
	t.Parallel()

	s := signuri.New(testSecret, testParam)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "no separator", token: "1077e65030", want: signuri.ErrMalformedToken},
		{name: "bad base64", token: "1077e65030.!!!", want: signuri.ErrInvalidEncoding},
		{name: "not json", token: "1077e65030.bm90IGpzb24", want: signuri.ErrInvalidPayload},
		{name: "trailing data", token: "1077e65030.WzFdWzJd", want: signuri.ErrInvalidPayload},
		{name: "empty payload", token: "1077e65030.", want: signuri.ErrInvalidPayload},
		{name: "digest mismatch", token: "0000000000.WzExMTEsMjIyMl0", want: signuri.ErrSignatureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := signuri.ParseToken[[]int](s, tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
			assert.Nil(t, got)
		})
	}

	t.Run("padded payload is accepted by the decoder", func(t *testing.T) {
		t.Parallel()
		_, err := signuri.ParseToken[any](s, "4098a252ce.bnVsbA==")
		assert.ErrorIs(t, err, signuri.ErrSignatureMismatch)
	})
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { signuri.WithDigestLength(0) })
	assert.Panics(t, func() { signuri.WithDigestLength(signuri.MaxDigestLength + 1) })
	assert.Panics(t, func() { signuri.WithAlgorithm("md5") })
	assert.Panics(t, func() { signuri.WithJSONFlavor("ruby") })
	assert.NotPanics(t, func() { signuri.WithLogger(nil) })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		s, err := signuri.NewFromConfig(signuri.Config{
			Secret:       testSecret,
			Param:        testParam,
			DigestLength: 12,
			Algorithm:    "concat",
			JSONFlavor:   "go",
		})
		require.NoError(t, err)
		assert.Equal(t, testParam, s.Param())

		signed, err := s.Sign("https://example.com/", []int{1111, 2222})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/?clickdata=b61077e65030.WzExMTEsMjIyMl0", signed)
	})

	t.Run("zero values use defaults", func(t *testing.T) {
		t.Parallel()
		s, err := signuri.NewFromConfig(signuri.Config{Secret: testSecret, Param: testParam})
		require.NoError(t, err)
		signed, err := s.Sign("https://example.com/", []int{1111, 2222})
		require.NoError(t, err)
		assert.Equal(t, testSigned, signed)
	})

	invalid := []signuri.Config{
		{Param: ""},
		{Param: "a b"},
		{Param: testParam, DigestLength: 65},
		{Param: testParam, DigestLength: -1},
		{Param: testParam, Algorithm: "md5"},
		{Param: testParam, JSONFlavor: "xml"},
	}
	for _, cfg := range invalid {
		_, err := signuri.NewFromConfig(cfg)
		assert.ErrorIs(t, err, signuri.ErrInvalidConfig, "%+v", cfg)
	}
}

func TestSigner_Concurrent(t *testing.T) {
	t.Parallel()

	s := signuri.New(testSecret, testParam)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			signed, err := s.Sign("https://example.com/", []int{n, n * 2})
			if !assert.NoError(t, err) {
				return
			}
			got, ok := signuri.Verify[[]int](s, signed)
			assert.True(t, ok)
			assert.Equal(t, []int{n, n * 2}, got)
		}(i)
	}
	wg.Wait()
}
