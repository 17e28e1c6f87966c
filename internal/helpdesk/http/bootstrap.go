package http

import (
	"errors"
	"net/http"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP creates the first coordinator.
//
//	@Summary		Bootstrap the first coordinator
//	@Description	Only available when a bootstrap token is configured, and only until a coordinator exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		helpdesksdk.CredentialsRequest	true	"Coordinator credentials"
//	@Success		201					{object}	helpdesksdk.BootstrapResponse
//	@Failure		400					{object}	helpdesksdk.ErrorResponse	"Invalid body or missing fields"
//	@Failure		401					{object}	helpdesksdk.ErrorResponse	"Missing or wrong bootstrap token"
//	@Failure		404					{object}	helpdesksdk.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	helpdesksdk.ErrorResponse	"A coordinator already exists"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.BootstrapService.Token == "" {
		httpx.WriteError(w, http.StatusNotFound, helpdesksdk.CodeNotFound, "bootstrap endpoint is not enabled")
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, helpdesksdk.CodeUnauthorized,
			"bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	var req helpdesksdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	userID, err := h.BootstrapService.Bootstrap(r.Context(), token, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrBootstrapDisabled):
		httpx.WriteError(w, http.StatusNotFound, helpdesksdk.CodeNotFound, "bootstrap endpoint is not enabled")
		return
	case errors.Is(err, service.ErrBootstrapUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, helpdesksdk.CodeUnauthorized, "invalid bootstrap token")
		return
	case errors.Is(err, service.ErrBootstrapAlready):
		httpx.WriteError(w, http.StatusConflict, helpdesksdk.CodeConflict, "system already bootstrapped")
		return
	default:
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("bootstrap completed", "user_id", userID)
	httpx.WriteJSON(w, http.StatusCreated, helpdesksdk.BootstrapResponse{UserID: userID})
}
