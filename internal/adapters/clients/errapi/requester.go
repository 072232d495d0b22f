package errapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/errtrack/internal/platform/httpclient"
)

// Requester centralizes the HTTP request lifecycle for the API client:
// request creation, JSON marshaling, execution via httpclient.Client,
// response body cleanup on error, status code validation, error
// translation, and JSON decoding.
type Requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// NewRequester creates a Requester backed by the given HTTP client and logger.
func NewRequester(client *httpclient.Client, logger *slog.Logger) *Requester {
	return &Requester{client: client, logger: logger}
}

// Do executes an HTTP request against the configured base URL. The operation
// name identifies the calling API operation in logs.
//
// It marshals reqBody to JSON (if non-nil), sends the request, validates
// that the status code is 200, and decodes the response body into respBody
// (if non-nil). For DELETE-style calls where no response body is expected,
// pass nil for respBody. On non-200 status codes, the response is passed to
// TranslateHTTPError.
func (r *Requester) Do(ctx context.Context, operation, method, path string, reqBody, respBody any) error {
	url := r.client.BaseURL() + path

	var req *http.Request
	var err error

	if reqBody != nil {
		var body []byte
		body, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%s: marshaling request body: %w", operation, err)
		}
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, http.NoBody)
	}
	if err != nil {
		return fmt.Errorf("%s: creating %s request: %w", operation, method, err)
	}

	return r.execute(req, operation, respBody)
}

// BaseURL returns the base URL from the underlying HTTP client.
func (r *Requester) BaseURL() string {
	return r.client.BaseURL()
}

// closeBody is a helper that closes an HTTP response body and logs on failure.
func (r *Requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// execute sends the request, checks the status code, and optionally decodes
// the response body. It ensures resp.Body is always closed. Transport errors
// are logged with the operation name and forwarded wrapped so callers can
// still inspect the original error.
func (r *Requester) execute(req *http.Request, operation string, respBody any) error {
	resp, err := r.client.Do(req.Context(), req)
	if err != nil {
		// httpclient.Do can return both resp and err when retries are
		// exhausted on a retryable status (e.g. 5xx). In that case,
		// translate the HTTP response into a domain error rather than
		// returning the raw retry error.
		if resp != nil {
			defer r.closeBody(req.Context(), resp)
			if resp.StatusCode != http.StatusOK {
				return TranslateHTTPError(resp)
			}
		}
		r.logger.ErrorContext(req.Context(), "request failed",
			slog.String("operation", operation),
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer r.closeBody(req.Context(), resp)

	if resp.StatusCode != http.StatusOK {
		translateErr := TranslateHTTPError(resp)
		r.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("operation", operation),
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
		)
		return translateErr
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("%s: decoding response: %w", operation, err)
		}
	}

	return nil
}
