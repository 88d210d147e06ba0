package handlers

import (
	"context"
	"net/http"
)

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	news, err := h.Controller.GetNews(ctx, identity.Subject)
	if err != nil {
		h.HandleErrors(w, r, err, "Failed to fetch news")
		return
	}

	h.respond(w, r, news, http.StatusOK)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.Controller.Search(ctx, r.URL.Query().Get("query"))
	if err != nil {
		h.HandleErrors(w, r, err, "Failed to search symbols")
		return
	}

	h.respond(w, r, result, http.StatusOK)
}
