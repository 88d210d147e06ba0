package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"portfolio-tracker/src/schemas"
	"portfolio-tracker/src/utils"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	holdings, err := h.Controller.ListHoldings(ctx, identity.Subject)
	if err != nil {
		h.HandleErrors(w, r, err, "Failed to fetch holdings")
		return
	}

	h.respond(w, r, holdings, http.StatusOK)
}

func (h *Handler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var req schemas.CreateHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.HandleErrors(w, r, utils.BadRequest("Invalid request body"), "")
		return
	}

	holding, err := h.Controller.CreateHolding(ctx, identity.Subject, req)
	if err != nil {
		h.HandleErrors(w, r, err, "Failed to create holding")
		return
	}

	h.respond(w, r, schemas.CreateHoldingResponse{Success: true, ID: holding.ID}, http.StatusCreated)
}

func (h *Handler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleErrors(w, r, utils.NewValidationError("id", "Invalid holding id"), "")
		return
	}

	if err := h.Controller.DeleteHolding(ctx, identity.Subject, id); err != nil {
		h.HandleErrors(w, r, err, "Failed to delete holding")
		return
	}

	h.respond(w, r, schemas.SuccessResponse{Success: true}, http.StatusOK)
}
