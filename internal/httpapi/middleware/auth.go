package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Scope is what a key may do with stored reports. A higher scope includes
// the lower ones.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeRead
	ScopeDelete
)

func (s Scope) String() string {
	switch s {
	case ScopeRead:
		return "read"
	case ScopeDelete:
		return "delete"
	}
	return "none"
}

// Keys are the API keys accepted by the report viewer. Readers may list and
// fetch reports; Deleters may also remove them.
type Keys struct {
	Readers  []string
	Deleters []string
}

// ScopeOf reports the scope granted to key.
func (k Keys) ScopeOf(key string) Scope {
	switch {
	case hasKey(key, k.Deleters):
		return ScopeDelete
	case hasKey(key, k.Readers):
		return ScopeRead
	}
	return ScopeNone
}

// guarded reports whether any key is configured that could grant need.
// With nothing configured the scope is open (local dev).
func (k Keys) guarded(need Scope) bool {
	if need == ScopeDelete {
		return len(k.Deleters) > 0
	}
	return len(k.Readers) > 0 || len(k.Deleters) > 0
}

func readAuth(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}

func hasKey(given string, set []string) bool {
	if given == "" {
		return false
	}
	for _, k := range set {
		if subtle.ConstantTimeCompare([]byte(k), []byte(given)) == 1 {
			return true
		}
	}
	return false
}

func deny(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// Require lets a request through when its key grants at least need.
// Unknown or missing keys get 401; known keys with too small a scope get 403.
func Require(keys Keys, need Scope) func(http.Handler) http.Handler {
	guarded := keys.guarded(need)
	return func(next http.Handler) http.Handler {
		if !guarded {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch got := keys.ScopeOf(readAuth(r)); {
			case got >= need:
				next.ServeHTTP(w, r)
			case got == ScopeNone:
				deny(w, http.StatusUnauthorized, `{"error":"unauthorized"}`)
			default:
				deny(w, http.StatusForbidden, `{"error":"forbidden"}`)
			}
		})
	}
}
