package http

import (
	"net/http"
	"strings"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
)

type HelpRequestsHandler struct {
	RequestService *service.RequestService
}

// HandleList godoc
//
//	@Summary		List help requests
//	@Description	Phone numbers are only included for coordinators and for the volunteer holding the request.
//	@Tags			HelpRequests
//	@Produce		json
//	@Security		BearerAuth
//	@Param			view	query		string	false	"all, available or mine"	Enums(all, available, mine)
//	@Success		200		{array}		helpdesksdk.HelpRequest
//	@Failure		400		{object}	helpdesksdk.ErrorResponse	"Unknown view"
//	@Failure		401		{object}	helpdesksdk.ErrorResponse	"view=mine without a session"
//	@Router			/help-requests [get].
func (h *HelpRequestsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	view := domain.RequestView(r.URL.Query().Get("view"))
	rs, err := h.RequestService.List(r.Context(), callerFrom(r), view)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, helpRequestDTOs(rs))
}

// HandleGet godoc
//
//	@Summary	Get a help request
//	@Tags		HelpRequests
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Help request ID"
//	@Success	200	{object}	helpdesksdk.HelpRequest
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/help-requests/{id} [get].
func (h *HelpRequestsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	hr, err := h.RequestService.Get(r.Context(), callerFrom(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, helpRequestDTO(hr))
}

// HandleCreate godoc
//
//	@Summary	Submit a help request
//	@Tags		HelpRequests
//	@Accept		json
//	@Produce	json
//	@Param		request	body		helpdesksdk.CreateHelpRequest	true	"Help request"
//	@Success	201		{object}	helpdesksdk.HelpRequest
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Router		/help-requests [post].
func (h *HelpRequestsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.CreateHelpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	hr, err := h.RequestService.Create(r.Context(), newHelpRequest(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The submitter gets their own record back, phone included.
	httpx.WriteJSON(w, http.StatusCreated, helpRequestDTO(hr))
}

// HandleAccept godoc
//
//	@Summary	Accept an open help request
//	@Tags		HelpRequests
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string							true	"Help request ID"
//	@Param		request	body		helpdesksdk.TransitionRequest	false	"Optional email, must be the caller's"
//	@Success	200		{object}	helpdesksdk.SuccessResponse
//	@Failure	401		{object}	helpdesksdk.ErrorResponse
//	@Failure	403		{object}	helpdesksdk.ErrorResponse	"Email is not the caller's"
//	@Failure	404		{object}	helpdesksdk.ErrorResponse	"Not found or already accepted"
//	@Router		/help-requests/{id}/accept [post].
func (h *HelpRequestsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	caller, ok := transitionCaller(w, r)
	if !ok {
		return
	}
	if err := h.RequestService.Accept(r.Context(), caller, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleCancel godoc
//
//	@Summary		Release an accepted help request
//	@Description	Volunteers can release requests they hold; coordinators can release any.
//	@Tags			HelpRequests
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"Help request ID"
//	@Param			request	body		helpdesksdk.TransitionRequest	false	"Optional email, must be the caller's"
//	@Success		200		{object}	helpdesksdk.SuccessResponse
//	@Failure		401		{object}	helpdesksdk.ErrorResponse
//	@Failure		403		{object}	helpdesksdk.ErrorResponse	"Email is not the caller's"
//	@Failure		404		{object}	helpdesksdk.ErrorResponse	"Not found or not held by the caller"
//	@Router			/help-requests/{id}/cancel [post].
func (h *HelpRequestsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := transitionCaller(w, r)
	if !ok {
		return
	}
	if err := h.RequestService.Cancel(r.Context(), caller, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleDelete godoc
//
//	@Summary	Delete a help request
//	@Tags		HelpRequests
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Help request ID"
//	@Success	200	{object}	helpdesksdk.SuccessResponse
//	@Failure	403	{object}	helpdesksdk.ErrorResponse
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/help-requests/{id} [delete].
func (h *HelpRequestsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.RequestService.Delete(r.Context(), callerFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// transitionCaller reads the optional accept/cancel body. An email in the
// body may only restate the caller's own.
func transitionCaller(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	var req helpdesksdk.TransitionRequest
	if err := decodeOptional(r, &req); err != nil {
		writeInvalidBody(w)
		return domain.Caller{}, false
	}

	caller := callerFrom(r)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && email != caller.Email {
		httpx.WriteError(w, http.StatusForbidden, helpdesksdk.CodeForbidden, "email does not match the signed-in user")
		return domain.Caller{}, false
	}
	return caller, true
}
