// Package auth gates the admin console behind a shared secret.
//
// The gate is a UI gate only: it decides what the browser gets to see, while
// the catalog API remains the real trust boundary.
package auth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/logiparts/logiparts-admin/internal/shared"
)

const (
	// MarkerKey is the session key that flags an authenticated admin.
	MarkerKey = "logiparts_admin"
	// markerValue is a sentinel, not a credential.
	markerValue = "1"

	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/admin/login"
	// HomePath is where a successful login lands.
	HomePath = "/admin/categories"
)

// Gate is the admin session store: it checks the secret and reads or writes
// the authenticated marker on the request's session.
type Gate struct {
	password []byte
	hash     []byte
}

// NewGate configures the expected secret. When both password and
// bcryptHash are empty the gate is fail-open: any attempt logs in.
func NewGate(password, bcryptHash string) *Gate {
	g := &Gate{}
	if password != "" {
		g.password = []byte(password)
	}
	if bcryptHash != "" {
		g.hash = []byte(bcryptHash)
	}
	return g
}

// FailOpen reports whether no secret is configured.
func (g *Gate) FailOpen() bool {
	return len(g.password) == 0 && len(g.hash) == 0
}

// Check compares secret with the configured one. The bcrypt hash wins when
// both are set.
func (g *Gate) Check(secret string) bool {
	switch {
	case len(g.hash) > 0:
		return bcrypt.CompareHashAndPassword(g.hash, []byte(secret)) == nil
	case len(g.password) > 0:
		return subtle.ConstantTimeCompare(g.password, []byte(secret)) == 1
	default:
		return true
	}
}

// Login marks sess as authenticated when secret is accepted.
func (g *Gate) Login(sess *shared.Session, secret string) bool {
	if sess == nil || !g.Check(secret) {
		return false
	}
	sess.Set(MarkerKey, markerValue)
	return true
}

// Logout clears the marker.
func (g *Gate) Logout(sess *shared.Session) {
	if sess == nil {
		return
	}
	sess.Delete(MarkerKey)
}

// IsAuthenticated re-derives the flag from the persisted marker.
func (g *Gate) IsAuthenticated(sess *shared.Session) bool {
	return sess != nil && sess.Get(MarkerKey) == markerValue
}

// Require redirects requests without the marker to the login page.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAuthenticated(shared.SessionFromContext(r.Context())) {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
