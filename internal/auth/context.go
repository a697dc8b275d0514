// Package auth carries the studio scope of a request. Scope arrives on the
// X-Studio-ID header; upstream gateways are trusted to have authenticated
// it.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const studioIDKey contextKey = "studioID"

// HeaderStudioID is the request header naming the owning studio.
const HeaderStudioID = "X-Studio-ID"

// ContextWithStudioID returns a new context carrying the studio scope.
func ContextWithStudioID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, studioIDKey, id)
}

// StudioIDFromContext retrieves the studio scope from the context, if any.
func StudioIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(studioIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// StudioScope lifts the X-Studio-ID header into the request context. A
// missing or malformed header passes through untouched; handlers that
// require scope reject the request themselves.
func StudioScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderStudioID))
		if id, err := uuid.Parse(raw); err == nil {
			r = r.WithContext(ContextWithStudioID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
