package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	visitorTTL     = 10 * time.Minute
	visitorCleanup = 5 * time.Minute
)

func getIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		first, _, _ := strings.Cut(ip, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit applies an IP-based token bucket limiter. Idle visitors expire
// from the table after visitorTTL. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	visitors := cache.New(visitorTTL, visitorCleanup)

	limiterFor := func(ip string) *rate.Limiter {
		if v, ok := visitors.Get(ip); ok {
			lim := v.(*rate.Limiter)
			visitors.SetDefault(ip, lim)
			return lim
		}
		lim := rate.NewLimiter(rate.Limit(rps), burst)
		// Add loses to a concurrent insert for the same ip; use the winner.
		if err := visitors.Add(ip, lim, cache.DefaultExpiration); err != nil {
			if v, ok := visitors.Get(ip); ok {
				return v.(*rate.Limiter)
			}
		}
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(getIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
