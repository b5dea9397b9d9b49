package cmssdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL  = errors.New("sdk: server url missing")
	ErrItemNotFound = errors.New("sdk: item not found")
)

const (
	// Generic request/server errors
	CodeInvalidRequest = "E_INVALID_REQUEST" // bad or invalid request
	CodeRateLimited    = "E_RATE_LIMITED"    // rate limit exceeded
	CodeInternalError  = "E_INTERNAL_ERROR"  // internal server error
	CodeAccessDenied   = "E_ACCESS_DENIED"   // access denied
	CodeUnknownError   = "E_UNKNOWN_ERR"     // unknown error

	// Content errors
	CodeContentNotFound    = "E_CONTENT_NOT_FOUND"    // the item or collection could not be found
	CodeContentInvalidType = "E_CONTENT_INVALID_TYPE" // the content type is not known to the server
	CodeContentBadPayload  = "E_CONTENT_BAD_PAYLOAD"  // the submitted payload failed validation
)

// APIError represents a structured error body returned by the CMS.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
}

// handleAPIError folds the transport error and the response state into a
// single error, mapping 404s onto ErrItemNotFound so callers can trigger
// the create fallback.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", operation, ErrItemNotFound)
	}

	// got a response, but the api returned an error
	if resp.IsErrorState() {
		if apiErr, ok := resp.ErrorResult().(*APIError); ok && apiErr.Code != "" {
			return fmt.Errorf("%s: %w", operation, apiErr)
		}
		return fmt.Errorf("api error: %s: %s", operation, resp.Status)
	}

	return nil
}
