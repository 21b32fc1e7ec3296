package middleware

import (
	"fmt"
	"net"
	"net/http"

	"github.com/itchan-dev/itboard/internal/flash"
	"github.com/itchan-dev/itboard/internal/logger"
	"github.com/itchan-dev/itboard/internal/middleware/ratelimiter"
)

const rateLimitMessage = "Too many attempts, try again later"

// RateLimit throttles requests per identity. Form posts are sent back to the
// same page with a flash message, anything else gets 429.
func RateLimit(rl *ratelimiter.Limiter, f *flash.Flash, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				logger.Log.Warn("rate limit identity unavailable", "error", err)
				http.Error(w, "Bad request", http.StatusBadRequest)
				return
			}
			if rl.Allow(identity) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Log.Warn("rate limit exceeded", "identity", identity, "path", r.URL.Path)
			if r.Method == http.MethodPost {
				f.Redirect(w, r, r.URL.Path, flash.ErrorCookie, rateLimitMessage)
				return
			}
			http.Error(w, rateLimitMessage, http.StatusTooManyRequests)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr. Forwarded headers are not
// trusted; put chi's RealIP in front when running behind a proxy.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("invalid IP address: %s", ip)
	}
	return ip, nil
}
