// Package requestid assigns a request id, honouring one supplied by the client.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"landledger/pkg/requestcontext"
)

const Header = "X-Request-ID"

const maxLen = 128

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" || len(id) > maxLen {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
