// ABOUTME: CORS middleware answering every response with permissive headers
// ABOUTME: Pre-flight OPTIONS requests are short-circuited with 200 and an empty body

package middleware

import "net/http"

const (
	corsAllowOrigin  = "*"
	corsAllowMethods = "GET, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORSMiddleware sets the CORS headers on all responses, including errors,
// and answers OPTIONS for any path without invoking the next handler.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
		w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
