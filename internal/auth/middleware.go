// Package auth provides HTTP authentication middleware for the SSE
// transport. The stdio transport needs none; it inherits the caller's
// process boundary.
package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/econsearch/papers-mcp/internal/config"
)

// Middleware wraps an HTTP handler with an authentication check.
type Middleware func(http.Handler) http.Handler

// openPaths bypass authentication so load balancers can probe /health.
var openPaths = map[string]bool{
	"/health": true,
}

// NewMiddleware builds the middleware matching the configured auth type.
func NewMiddleware(settings config.AuthSettings) (Middleware, error) {
	switch settings.Type {
	case config.AuthTypeNone, "":
		return func(next http.Handler) http.Handler { return next }, nil
	case config.AuthTypeBasic:
		if settings.Basic.Username == "" || settings.Basic.Password == "" {
			return nil, fmt.Errorf("basic auth requires non-empty username and password")
		}
		return skipOpenPaths(requireBasic(settings.Basic)), nil
	case config.AuthTypeAPIKey:
		if len(settings.APIKeys) == 0 {
			return nil, fmt.Errorf("apikey auth requires at least one API key")
		}
		return skipOpenPaths(requireAPIKey(settings.APIKeys)), nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", settings.Type)
	}
}

// skipOpenPaths routes open paths around the auth check.
func skipOpenPaths(authed Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		guarded := authed(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func requireBasic(creds config.BasicAuthSettings) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(creds.Username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(creds.Password)) == 1
			if !ok || !userMatch || !passMatch {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireAPIKey(apiKeys []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			valid := false
			for _, candidate := range apiKeys {
				if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
					valid = true
					break
				}
			}
			if !valid {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
