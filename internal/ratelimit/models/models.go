package models

import "time"

// EndpointClass groups routes that share a bucket per caller.
type EndpointClass string

const (
	ClassRead  EndpointClass = "read"
	ClassWrite EndpointClass = "write"
)

// IsValid checks if the endpoint class is one of the supported enum values.
func (c EndpointClass) IsValid() bool {
	return c == ClassRead || c == ClassWrite
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// RateLimitExceededResponse is the 429 body.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
