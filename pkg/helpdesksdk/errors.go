package helpdesksdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes written by the server.
const (
	CodeValidation   = "validation_error"
	CodeInvalidBody  = "invalid_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeServerError  = "server_error"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		apiErr.Code = er.Code
		apiErr.Message = er.Error
		apiErr.Details = er.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
