package middleware

import "net/http"

// InjectWriter swaps the ResponseWriter for a SafeResponseWriter. It has
// to sit outermost in the chain: LogRequest further in reads the recorded
// status and byte count, and the wrapper guards every later write against
// a request context that already ended.
func InjectWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := NewSafeResponseWriter(r.Context(), w)
		next.ServeHTTP(writer, r)
	})
}
