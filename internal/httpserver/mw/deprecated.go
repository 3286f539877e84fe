package mw

import (
	"fmt"
	"net/http"
)

// Deprecated marks responses of a deprecated route. The route keeps serving
// in its own version but is not inherited by the next one, which the warning
// tells clients.
func Deprecated(version, path string) func(http.Handler) http.Handler {
	warning := fmt.Sprintf(`299 - "Deprecated API endpoint %s; it is not carried past API version %s"`, path, version)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Deprecation", "true")
			w.Header().Set("Warning", warning)
			w.Header().Set("X-API-Deprecated", "true")
			next.ServeHTTP(w, r)
		})
	}
}
