package lawdoc

import "context"

// Response is the raw result of fetching a URL.
type Response struct {
	// URL is the final URL after redirects.
	URL string

	StatusCode int

	// ContentType is the Content-Type header as sent by the server.
	ContentType string

	Body []byte
}

// Fetcher retrieves raw resources from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body along with
	// its declared content type. Non-success statuses are returned as
	// errors: ENOTFOUND for missing resources, EUNAVAILABLE for transient
	// server failures.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// RobotsPolicy decides whether the crawler may fetch a URL.
type RobotsPolicy interface {
	// Allowed reports whether robots.txt permits fetching url. When the
	// robots file cannot be retrieved the policy fails open.
	Allowed(ctx context.Context, url string) bool
}
