package middleware

import "net/http"

// InjectWriter wraps the ResponseWriter in a SafeResponseWriter. It must
// run before LogRequest and Metrics, which read the recorded status.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := NewSafeResponseWriter(r.Context(), w)
		next.ServeHTTP(writer, r)
	})
}
