package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// writeServiceError maps service errors to status codes. Anything unexpected
// is logged and reported as a 500 without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorBody{
			Error:   "validation failed for some fields",
			Code:    helpdesksdk.CodeValidation,
			Details: verr.Fields,
		})
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, helpdesksdk.CodeValidation, err.Error())
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, helpdesksdk.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, helpdesksdk.CodeUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, helpdesksdk.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, helpdesksdk.CodeForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrAlreadyAccepted),
		errors.Is(err, service.ErrNotFoundOrNotOwned):
		httpx.WriteError(w, http.StatusNotFound, helpdesksdk.CodeNotFound, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, helpdesksdk.CodeServerError, "an internal error occurred")
	}
}

func writeInvalidBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, helpdesksdk.CodeInvalidBody, "request body must be valid JSON")
}

// decodeOptional decodes a JSON body that may be absent.
func decodeOptional(r *http.Request, v any) error {
	if err := httpx.DecodeJSON(r, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// callerFrom builds the caller from the verified session, or returns an
// anonymous caller.
func callerFrom(r *http.Request) domain.Caller {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return domain.Caller{}
	}
	return service.CallerFromClaims(claims)
}

func writeSuccess(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusOK, helpdesksdk.SuccessResponse{Success: true})
}
