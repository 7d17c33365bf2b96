package http

import (
	"net/http"
	"time"
)

const UserAgentHeader = "User-Agent"

// NewClient returns an HTTP client with the given overall request timeout
// and the standard User-Agent header. Every outbound call in this tool is
// bounded by its client's timeout; there is no retry.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &Transport{
			headers: map[string]string{
				UserAgentHeader: UserAgent(),
			},
		},
	}
}
