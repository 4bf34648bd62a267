package clicks

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/shopello/urisign/pkg/signuri"
)

var (
	ErrInvalidTarget   = errors.New("click target must be an absolute http or https url")
	ErrRecorderFailure = errors.New("failed to record click")
)

// Click is the payload of a tracking link.
type Click struct {
	URL       string `json:"url"`
	ProductID int64  `json:"product_id,omitempty"`
	StoreID   int64  `json:"store_id,omitempty"`
	Channel   string `json:"channel,omitempty"`
}

// Validate checks that the click redirects to an absolute http(s) URL.
func (c Click) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.Join(ErrInvalidTarget, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTarget, c.URL)
	}
	return nil
}

// Link returns baseURL with c signed into the signer's parameter.
func Link(s *signuri.Signer, baseURL string, c Click) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	return s.Sign(baseURL, c)
}
