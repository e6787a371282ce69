package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"landledger/pkg/requestcontext"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("keeps a client supplied id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(Header, "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get(Header))
	})

	t.Run("generates an id when absent or oversized", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(Header, strings.Repeat("x", 500))
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Len(t, seen, 36)
	})
}
