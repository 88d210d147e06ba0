package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"portfolio-tracker/src/api/controllers"
	"portfolio-tracker/src/api/middlewares"
	"portfolio-tracker/src/auth"
	"portfolio-tracker/src/utils"
)

const requestTimeout = 10 * time.Second

type Handler struct {
	Controller controllers.IController
	EchoClaims []string
}

func NewHandler(controller controllers.IController, echoClaims []string) *Handler {
	return &Handler{Controller: controller, EchoClaims: echoClaims}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors logs err and writes its client envelope. fallback is the message
// used for upstream data source failures.
func (h *Handler) HandleErrors(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	httpErr := utils.ToHTTPError(err, fallback)

	logger := utils.LoggerFromContext(r.Context()).WithError(err).WithField("status", httpErr.Code)
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Info("request rejected")
	}

	h.respond(w, r, httpErr, httpErr.Code)
}

// identity returns the caller verified by the auth middleware. Routes registered
// behind it always have one.
func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity, ok := middlewares.IdentityFromContext(r.Context())
	if !ok {
		h.HandleErrors(w, r, utils.Unauthorized("Unauthorized: Missing or invalid token"), "")
		return nil, false
	}
	return identity, true
}
