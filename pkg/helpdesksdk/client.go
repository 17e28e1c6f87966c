package helpdesksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the public endpoints and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// do sends body as JSON (when non-nil) with an optional bearer token.
func (c *Client) do(ctx context.Context, method, path, token string, body any, headers map[string]string) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON reads resp into target, or returns an *APIError when the status
// is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		if err := parseErrorResponse(resp, body); err != nil {
			return err
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "unexpected status"}
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/livez", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var out HealthResponse
	return &out, decodeJSON(resp, &out, http.StatusOK)
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/readyz", "", nil, nil)
	if err != nil {
		return nil, err
	}
	var out HealthResponse
	return &out, decodeJSON(resp, &out, http.StatusOK)
}

// Register creates a volunteer account that waits for coordinator approval.
func (c *Client) Register(ctx context.Context, email, password string) error {
	resp, err := c.do(ctx, http.MethodPost, "/register", "", CredentialsRequest{Email: email, Password: password}, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusCreated)
}

// Bootstrap creates the first coordinator.
func (c *Client) Bootstrap(ctx context.Context, token, email, password string) (*BootstrapResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/bootstrap", "",
		CredentialsRequest{Email: email, Password: password},
		map[string]string{"X-Bootstrap-Token": token},
	)
	if err != nil {
		return nil, err
	}
	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CoordinatorLogin(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/coordinator-login", email, password)
}

func (c *Client) VolunteerLogin(ctx context.Context, email, password string) (*Session, error) {
	return c.login(ctx, "/volunteer-login", email, password)
}

func (c *Client) login(ctx context.Context, path, email, password string) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, path, "", CredentialsRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &Session{
		client:    c,
		Token:     out.Token,
		UserID:    out.UserID,
		Role:      out.Role,
		Email:     out.Email,
		ExpiresAt: time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}, nil
}

// CreateHelpRequest submits a request for help. No login needed.
func (c *Client) CreateHelpRequest(ctx context.Context, req CreateHelpRequest) (*HelpRequest, error) {
	resp, err := c.do(ctx, http.MethodPost, "/help-requests", "", req, nil)
	if err != nil {
		return nil, err
	}
	var out HelpRequest
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHelpRequests lists requests anonymously; phone numbers are removed.
func (c *Client) ListHelpRequests(ctx context.Context, view string) ([]HelpRequest, error) {
	return listHelpRequests(ctx, c, "", view)
}

func (c *Client) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	resp, err := c.do(ctx, http.MethodPost, "/contacts", "", req, nil)
	if err != nil {
		return nil, err
	}
	var out Contact
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateVolunteer(ctx context.Context, req CreateVolunteerRequest) (*Volunteer, error) {
	resp, err := c.do(ctx, http.MethodPost, "/volunteers", "", req, nil)
	if err != nil {
		return nil, err
	}
	var out Volunteer
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func listHelpRequests(ctx context.Context, c *Client, token, view string) ([]HelpRequest, error) {
	path := "/help-requests"
	if view != "" {
		path += "?view=" + view
	}
	resp, err := c.do(ctx, http.MethodGet, path, token, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []HelpRequest
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
