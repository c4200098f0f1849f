package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the "error" field of a response body.
const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeUsernameTaken       = "username_taken"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidRefreshToken = "invalid_refresh_token"
	ErrorCodePasswordIncorrect   = "password_incorrect"
	ErrorCodeUserNotFound        = "user_not_found"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeServerError         = "server_error"
)

// APIError is a non-success response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authsdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("authsdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not an ErrorResponse fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
