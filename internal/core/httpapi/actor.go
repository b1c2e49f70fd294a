package httpapi

import (
	"net/http"

	"asset-server/internal/core/domain"
)

// actorFromRequest reads the authenticated user identity forwarded by the
// gateway. A missing header means a system or anonymous caller.
func actorFromRequest(r *http.Request) *domain.ID {
	value := r.Header.Get("X-User-ID")
	if value == "" {
		return nil
	}
	actor := domain.ID(value)
	return &actor
}
