package httpx

import (
	"net/http"

	"github.com/comandaapp/comanda/internal/pkg/requestid"
	"github.com/go-chi/chi/v5/middleware"
)

// attachRequestID puts the request id into the context our slog handler
// reads. The client's X-Request-Id header wins so that client and server
// logs correlate; chi's generated id is the fallback.
func attachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = middleware.GetReqID(r.Context())
		}
		next.ServeHTTP(w, r.WithContext(requestid.With(r.Context(), id)))
	})
}
