// Package testutil holds request builders and response decoders shared by the
// handler and integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "landledger/pkg/domain-errors"
	"landledger/pkg/platform/httputil"
)

// NewJSONRequest builds a request whose body is body encoded as JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body), "encode request body")
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// NewRequestWithBody sends raw as the JSON body, for malformed payloads.
func NewRequestWithBody(t *testing.T, method, path, raw string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "decode response: %s", rr.Body.String())
	return &out
}

// AssertError checks the status and the machine-readable code of an error
// response.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, status int, code dErrors.Code) {
	t.Helper()
	assert.Equal(t, status, rr.Code, "unexpected status, body: %s", rr.Body.String())
	body := UnmarshalResponse[httputil.ErrorResponse](t, rr)
	assert.Equal(t, string(code), body.Error)
}
