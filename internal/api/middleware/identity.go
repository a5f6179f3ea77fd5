package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

type contextKey string

const viewerKey contextKey = "viewerExternalID"

// SessionName is the cookie the external identity provider integration
// writes the authenticated user's external id into.
const SessionName = "gather_session"

// Identity reads the acting user's external id out of the session cookie.
// Authentication itself happens upstream: by the time a request reaches this
// service the identity provider has established the session, and this layer
// trusts it.
type Identity struct {
	store sessions.Store
}

// NewIdentity creates the identity middleware over a cookie session store
func NewIdentity(secret []byte) *Identity {
	store := sessions.NewCookieStore(secret)
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return &Identity{store: store}
}

// Middleware stashes the viewer's external id, if any, into the request
// context. Unauthenticated requests pass through: read endpoints are public.
func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := i.store.Get(r, SessionName)
		if err == nil {
			if externalID, ok := session.Values["externalId"].(string); ok && externalID != "" {
				ctx := context.WithValue(r.Context(), viewerKey, externalID)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireViewer rejects requests that carry no authenticated identity
func (i *Identity) RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ViewerExternalID(r) == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ViewerExternalID returns the acting user's external id, or "" when the
// request is unauthenticated.
func ViewerExternalID(r *http.Request) string {
	if id, ok := r.Context().Value(viewerKey).(string); ok {
		return id
	}
	return ""
}
