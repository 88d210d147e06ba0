package handlers

import (
	"net/http"

	"portfolio-tracker/src/schemas"
)

// GetPrivate echoes the caller's subject and the configured profile claims it
// carries. Claims absent from the token are left out.
func (h *Handler) GetPrivate(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	user := map[string]any{"sub": identity.Subject}
	for _, name := range h.EchoClaims {
		if value, present := identity.Claims[name]; present && name != "sub" {
			user[name] = value
		}
	}

	h.respond(w, r, schemas.PrivateResponse{
		Message: "Hello from a private endpoint! You need to be authenticated to see this.",
		User:    user,
	}, http.StatusOK)
}
