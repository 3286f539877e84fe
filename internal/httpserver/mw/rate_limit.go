package mw

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"

	"github.com/MrSnakeDoc/totoro/internal/utils"
)

// RateLimit limits each client IP to requests per window. Each call returns
// an independent limiter, so the counters are per route.
func RateLimit(requests int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return utils.ClientIP(r, trustProxy), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    http.StatusTooManyRequests,
				"message": http.StatusText(http.StatusTooManyRequests),
			})
		}),
	)
}
