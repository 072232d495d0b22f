package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/dto"
	"github.com/jsamuelsen11/errtrack/internal/domain"
	"github.com/jsamuelsen11/errtrack/internal/domain/query"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// mapReportRequest converts a ReportErrorRequest DTO to a domain ErrorEvent.
// The base event carries the agent's resolved service context and timestamp;
// request fields override them where provided.
func mapReportRequest(req *dto.ReportErrorRequest, ev *report.ErrorEvent) *report.ErrorEvent {
	ev.SetMessage(req.Message)

	if req.EventTime != nil {
		ev.EventTime = *req.EventTime
	}
	if req.ServiceContext != nil {
		ev.SetServiceContext(req.ServiceContext.Service, req.ServiceContext.Version)
	}
	if req.Context != nil {
		if req.Context.User != "" {
			ev.SetUser(req.Context.User)
		}
		if hr := req.Context.HTTPRequest; hr != nil {
			ev.SetHTTPContext(&report.HTTPContext{
				Method:             hr.Method,
				URL:                hr.URL,
				UserAgent:          hr.UserAgent,
				Referrer:           hr.Referrer,
				ResponseStatusCode: hr.ResponseStatusCode,
				RemoteIP:           hr.RemoteIP,
			})
		}
	}
	return ev
}

// parseListQuery builds listing options from URL query parameters. The
// parameters mirror the flattened wire keys: groupId, service, version,
// resourceType, period, pageSize, and pageToken.
func parseListQuery(r *http.Request) (*query.Params, error) {
	q := r.URL.Query()

	p := &query.Params{
		GroupID:   q.Get("groupId"),
		TimeRange: query.TimeRange(q.Get("period")),
		PageToken: q.Get("pageToken"),
	}

	if svc, ver, rt := q.Get("service"), q.Get("version"), q.Get("resourceType"); svc != "" || ver != "" || rt != "" {
		p.ServiceFilter = &query.ServiceFilter{Service: svc, Version: ver, ResourceType: rt}
	}

	if raw := q.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &domain.ValidationError{
				Fields: map[string]string{"pageSize": "must be a valid integer"},
			}
		}
		p.PageSize = n
	}

	return p, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

// decodeJSONBody decodes the request body as JSON into dst. The body is
// limited to maxJSONBodyBytes to prevent resource exhaustion. On failure,
// it writes a 400 error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{
			Fields: map[string]string{"body": "invalid JSON"},
		})
		return false
	}
	return true
}

// validatable is implemented by request DTOs that support validation.
type validatable interface {
	Validate() error
}

// decodeAndValidate decodes the JSON request body into dst and validates it.
// On decode or validation failure it writes an error response and returns false.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
