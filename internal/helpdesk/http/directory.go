package http

import (
	"net/http"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
)

type DirectoryHandler struct {
	DirectoryService *service.DirectoryService
}

// HandleCreateContact godoc
//
//	@Summary	Send a contact message
//	@Tags		Directory
//	@Accept		json
//	@Produce	json
//	@Param		request	body		helpdesksdk.CreateContactRequest	true	"Message"
//	@Success	201		{object}	helpdesksdk.Contact
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Router		/contacts [post].
func (h *DirectoryHandler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.CreateContactRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	c, err := h.DirectoryService.CreateContact(r.Context(), domain.Contact{
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, contactDTO(c))
}

// HandleListContacts godoc
//
//	@Summary	List contact messages
//	@Tags		Directory
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	helpdesksdk.Contact
//	@Router		/contacts [get].
func (h *DirectoryHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	cs, err := h.DirectoryService.ListContacts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]helpdesksdk.Contact, len(cs))
	for i, c := range cs {
		out[i] = contactDTO(c)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDeleteContact godoc
//
//	@Summary	Delete a contact message
//	@Tags		Directory
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Contact ID"
//	@Success	200	{object}	helpdesksdk.SuccessResponse
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/contacts/{id} [delete].
func (h *DirectoryHandler) HandleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.DirectoryService.DeleteContact(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}

// HandleCreateVolunteer godoc
//
//	@Summary	Sign up as a volunteer candidate
//	@Tags		Directory
//	@Accept		json
//	@Produce	json
//	@Param		request	body		helpdesksdk.CreateVolunteerRequest	true	"Sign-up"
//	@Success	201		{object}	helpdesksdk.Volunteer
//	@Failure	400		{object}	helpdesksdk.ErrorResponse
//	@Router		/volunteers [post].
func (h *DirectoryHandler) HandleCreateVolunteer(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.CreateVolunteerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	v, err := h.DirectoryService.CreateVolunteer(r.Context(), domain.Volunteer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Address:    req.Address,
		Phone:      req.Phone,
		Email:      req.Email,
		Motivation: req.Motivation,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, volunteerDTO(v))
}

// HandleListVolunteers godoc
//
//	@Summary	List volunteer sign-ups
//	@Tags		Directory
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	helpdesksdk.Volunteer
//	@Router		/volunteers [get].
func (h *DirectoryHandler) HandleListVolunteers(w http.ResponseWriter, r *http.Request) {
	vs, err := h.DirectoryService.ListVolunteers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]helpdesksdk.Volunteer, len(vs))
	for i, v := range vs {
		out[i] = volunteerDTO(v)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDeleteVolunteer godoc
//
//	@Summary	Delete a volunteer sign-up
//	@Tags		Directory
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Volunteer ID"
//	@Success	200	{object}	helpdesksdk.SuccessResponse
//	@Failure	404	{object}	helpdesksdk.ErrorResponse
//	@Router		/volunteers/{id} [delete].
func (h *DirectoryHandler) HandleDeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := h.DirectoryService.DeleteVolunteer(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w)
}
