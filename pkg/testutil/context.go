package testutil

import (
	"net/http"

	"landledger/pkg/domain"
	"landledger/pkg/requestcontext"
)

// WithCaller attaches caller to the request the way the auth middleware does
// after validating a bearer token.
func WithCaller(req *http.Request, caller domain.Address) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}
