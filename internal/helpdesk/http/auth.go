package http

import (
	"net/http"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
	"github.com/burenvoorburen/helpdesk/pkg/httpx"
)

type AuthHandler struct {
	IdentityService *service.IdentityService
	SessionService  *service.SessionService
}

// HandleRegister godoc
//
//	@Summary		Register as a volunteer
//	@Description	Creates a volunteer account that can log in once a coordinator approves it
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		helpdesksdk.CredentialsRequest	true	"Email and password"
//	@Success		201		{object}	helpdesksdk.MessageResponse
//	@Failure		400		{object}	helpdesksdk.ErrorResponse	"Invalid body or missing fields"
//	@Failure		409		{object}	helpdesksdk.ErrorResponse	"Email already registered"
//	@Router			/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req helpdesksdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	if _, err := h.IdentityService.Register(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, helpdesksdk.MessageResponse{
		Message: "Registration successful. Awaiting approval.",
	})
}

// HandleCoordinatorLogin godoc
//
//	@Summary		Coordinator login
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		helpdesksdk.CredentialsRequest	true	"Email and password"
//	@Success		200		{object}	helpdesksdk.LoginResponse
//	@Failure		400		{object}	helpdesksdk.ErrorResponse	"Invalid body or missing fields"
//	@Failure		401		{object}	helpdesksdk.ErrorResponse	"Invalid credentials"
//	@Router			/coordinator-login [post].
func (h *AuthHandler) HandleCoordinatorLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleCoordinator)
}

// HandleVolunteerLogin godoc
//
//	@Summary		Volunteer login
//	@Description	Only volunteers approved by a coordinator can log in
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		helpdesksdk.CredentialsRequest	true	"Email and password"
//	@Success		200		{object}	helpdesksdk.LoginResponse
//	@Failure		400		{object}	helpdesksdk.ErrorResponse	"Invalid body or missing fields"
//	@Failure		401		{object}	helpdesksdk.ErrorResponse	"Invalid credentials or not yet approved"
//	@Router			/volunteer-login [post].
func (h *AuthHandler) HandleVolunteerLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleVolunteer)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role domain.Role) {
	var req helpdesksdk.CredentialsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	sess, err := h.SessionService.Login(r.Context(), req.Email, req.Password, role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, helpdesksdk.LoginResponse{
		Token:     sess.Token,
		Role:      string(sess.User.Role),
		Email:     sess.User.Email,
		UserID:    sess.User.ID,
		ExpiresIn: int(time.Until(sess.ExpiresAt).Seconds()),
	})
}
