// Package errapi implements the outbound adapter for the remote
// error-tracking API: URL construction, credential checks, request
// execution, and translation of HTTP error responses into domain errors.
package errapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen11/errtrack/internal/domain"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// apiError is the error envelope the remote service wraps failures in.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// TranslateHTTPError maps an HTTP error response to a domain error, using
// the service's error envelope message when one is present.
func TranslateHTTPError(resp *http.Response) error {
	detail := parseAPIError(resp)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)

	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", detail, domain.ErrValidation)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, domain.ErrForbidden)

	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)

	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// parseAPIError attempts to read the error envelope message from the
// response. Returns an empty string if parsing fails.
func parseAPIError(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return ""
	}

	var ae apiError
	if err := json.Unmarshal(body, &ae); err != nil {
		return ""
	}
	return ae.Error.Message
}
