package middleware

import (
	"net/http"
)

const (
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"

	AllowedMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	AllowedHeaders = "Content-Type"
)

// CORS allows the browser client, served from a different origin, to
// call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderAllowOrigin, "*")
		w.Header().Set(HeaderAllowMethods, AllowedMethods)
		w.Header().Set(HeaderAllowHeaders, AllowedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
