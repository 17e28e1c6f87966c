package helpdesksdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session is a logged in volunteer or coordinator. Sessions do not refresh;
// log in again after ExpiresAt.
type Session struct {
	client *Client

	Token     string
	UserID    string
	Role      string
	Email     string
	ExpiresAt time.Time
}

// NewSession wraps an existing token.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, Token: token}
}

func (s *Session) do(ctx context.Context, method, path string, body, target any, expectedStatus int) error {
	resp, err := s.client.do(ctx, method, path, s.Token, body, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

func (s *Session) ListHelpRequests(ctx context.Context, view string) ([]HelpRequest, error) {
	return listHelpRequests(ctx, s.client, s.Token, view)
}

func (s *Session) GetHelpRequest(ctx context.Context, id string) (*HelpRequest, error) {
	var out HelpRequest
	if err := s.do(ctx, http.MethodGet, "/help-requests/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) AcceptHelpRequest(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodPost, "/help-requests/"+url.PathEscape(id)+"/accept", TransitionRequest{}, nil, http.StatusOK)
}

func (s *Session) CancelHelpRequest(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodPost, "/help-requests/"+url.PathEscape(id)+"/cancel", TransitionRequest{}, nil, http.StatusOK)
}

func (s *Session) DeleteHelpRequest(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/help-requests/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

func (s *Session) UpdatePushToken(ctx context.Context, token string) error {
	return s.do(ctx, http.MethodPost, "/volunteers/updatePushToken", PushTokenRequest{ExpoPushToken: token}, nil, http.StatusOK)
}

func (s *Session) ListPendingVolunteers(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.do(ctx, http.MethodGet, "/pending-volunteers", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) ApproveVolunteer(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodPost, "/accept-volunteer", ApproveVolunteerRequest{UserID: userID}, nil, http.StatusOK)
}

func (s *Session) PromoteToCoordinator(ctx context.Context, email string) error {
	return s.do(ctx, http.MethodPost, "/add-coordinator", PromoteRequest{Email: email}, nil, http.StatusOK)
}

func (s *Session) DeletePendingVolunteer(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/pending-volunteers/"+url.PathEscape(userID), nil, nil, http.StatusOK)
}

func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	return s.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, nil, http.StatusOK)
}

func (s *Session) ListContacts(ctx context.Context) ([]Contact, error) {
	var out []Contact
	if err := s.do(ctx, http.MethodGet, "/contacts", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) DeleteContact(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/contacts/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

func (s *Session) ListVolunteers(ctx context.Context) ([]Volunteer, error) {
	var out []Volunteer
	if err := s.do(ctx, http.MethodGet, "/volunteers", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) DeleteVolunteer(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/volunteers/"+url.PathEscape(id), nil, nil, http.StatusOK)
}
