package auth

import (
	"net/http"

	"github.com/casetrail/casetrail/internal/shared"
)

// Middleware resolves the identity bound to the request session and stores
// it in the request context. Anonymous requests pass through unchanged.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := s.Current(r.Context(), sess)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), id)))
	})
}
