package http

import (
	"net/http"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
)

type UsersHandler struct {
	IdentityService *service.IdentityService
}

// HandleListPending godoc
//
//	@Summary	List volunteers awaiting approval
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		helpdesksdk.User
//	@Failure	401	{object}	helpdesksdk.ErrorResponse
//	@Failure	403	{object}	helpdesksdk.ErrorResponse	"Not a coordinator"
//	@Router		/pending-volunteers [get].
func (h *UsersHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.IdentityService.ListPendingVolunteers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userDTOs(users))
}

// HandleApprove godoc
//
//	@Summary	Approve a volunteer
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		helpdesksdk.ApproveVolunteerRequest	true	"Volunteer to approve"
//	@Success	200		{object}	helpdesksdk.SuccessResponse
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Failure	404		{object}	helpdesksdk.ErrorResponse	"No such volunteer"
//	@Router		/accept-volunteer [post].
func (h *UsersHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.ApproveVolunteerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}
	if err := h.IdentityService.ApproveVolunteer(r.Context(), req.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandlePromote godoc
//
//	@Summary	Promote a volunteer to coordinator
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		helpdesksdk.PromoteRequest	true	"Email of the volunteer"
//	@Success	200		{object}	helpdesksdk.SuccessResponse
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Failure	404		{object}	helpdesksdk.ErrorResponse	"No such user"
//	@Failure	409		{object}	helpdesksdk.ErrorResponse	"Already a coordinator"
//	@Router		/add-coordinator [post].
func (h *UsersHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.PromoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}
	if err := h.IdentityService.PromoteToCoordinator(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleDeletePending godoc
//
//	@Summary	Reject a pending volunteer
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	helpdesksdk.SuccessResponse
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/pending-volunteers/{id} [delete].
func (h *UsersHandler) HandleDeletePending(w http.ResponseWriter, r *http.Request) {
	if err := h.IdentityService.DeletePendingVolunteer(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleDeleteUser godoc
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	helpdesksdk.SuccessResponse
//	@Failure	403	{object}	helpdesksdk.ErrorResponse	"Deleting yourself"
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/users/{id} [delete].
func (h *UsersHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.IdentityService.DeleteUser(r.Context(), callerFrom(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleUpdatePushToken godoc
//
//	@Summary	Register the caller's Expo push token
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		helpdesksdk.PushTokenRequest	true	"Expo push token"
//	@Success	200		{object}	helpdesksdk.SuccessResponse
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Router		/volunteers/updatePushToken [post].
func (h *UsersHandler) HandleUpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.PushTokenRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}
	if err := h.IdentityService.RegisterPushToken(r.Context(), callerFrom(r), req.ExpoPushToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
