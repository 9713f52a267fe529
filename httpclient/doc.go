// Package httpclient provides a configurable HTTP client with built-in
// authentication and resilience (retry, rate limiting) for talking to
// external AI provider APIs.
//
// The base Client handles the HTTP protocol concerns; the generic typed
// helpers (Get, Post, ...) layer JSON encoding and decoding on top.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://generativelanguage.googleapis.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.APIKeyAuthQuery("my-key", "key"),
//	})
//
//	resp, err := httpclient.Post[GenerateResponse](client, ctx,
//	    "/v1beta/models/gemini-1.5-flash:generateContent", reqBody)
//
// # With Resilience
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
package httpclient
