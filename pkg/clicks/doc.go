// Package clicks serves signed click-tracking links.
//
// A tracking link carries a signed Click in a query parameter:
//
//	https://go.example.com/r?clickdata=<digest>.<base64url(json(click))>
//
// The handler authenticates the payload with a signuri.Signer, records the
// click through a Recorder and redirects to the click's URL. Links that are
// unsigned, forged or point at anything other than an absolute http(s) URL
// never redirect, so the endpoint cannot be used as an open redirect.
//
// # Usage
//
//	s := signuri.New(secret, "clickdata")
//	link, err := clicks.Link(s, "https://go.example.com/r", clicks.Click{
//	    URL:       "https://store.example/p/42",
//	    ProductID: 42,
//	    StoreID:   7,
//	})
//
//	r := chi.NewRouter()
//	r.Mount("/", clicks.Router(s, clicks.NewRedisRecorder(client, "clicks")))
//
// Links minted by other signers verify regardless of their key order.
//
// Recording is best effort: a failing Recorder is logged and the visitor is
// still redirected.
package clicks
