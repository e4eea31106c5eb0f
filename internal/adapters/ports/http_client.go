package ports

import "net/http"

// HTTPClient is what the gateway client sends requests through; *http.Client
// satisfies it
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
