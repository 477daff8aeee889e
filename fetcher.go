package docchat

import "context"

// Fetcher retrieves raw page bodies from URLs.
type Fetcher interface {
	// Fetch retrieves the URL and returns the response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
