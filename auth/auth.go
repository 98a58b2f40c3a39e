// Package auth guards the HTTP API with a static bearer token.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// QueryParam carries the token for clients that cannot set headers, such as
// browser websockets.
const QueryParam = "access_token"

// Token extracts the bearer token from the Authorization header, falling
// back to the access_token query parameter.
func Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return tok
		}
		return ""
	}
	return r.URL.Query().Get(QueryParam)
}

// Middleware rejects requests without the configured token with 401.
// It is a pass-through when conf is disabled.
func Middleware(conf Conf, next http.Handler) http.Handler {
	if !conf.Enabled() {
		return next
	}
	want := []byte(conf.Token)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(Token(r))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="fleetalloc"`)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(struct {
				Error string `json:"error"`
			}{"unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
