package dto

import (
	"strings"
	"time"

	"github.com/jsamuelsen11/errtrack/internal/domain"
)

const msgRequired = "is required"

// ServiceContextRequest overrides the agent's resolved service context for a
// single reported event.
type ServiceContextRequest struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// HTTPContextRequest describes the HTTP request an instrumented application
// was serving when the error occurred.
type HTTPContextRequest struct {
	Method             string `json:"method,omitempty"`
	URL                string `json:"url,omitempty"`
	UserAgent          string `json:"userAgent,omitempty"`
	Referrer           string `json:"referrer,omitempty"`
	ResponseStatusCode int    `json:"responseStatusCode,omitempty"`
	RemoteIP           string `json:"remoteIp,omitempty"`
}

// ReportContextRequest carries the optional contextual portion of a report.
type ReportContextRequest struct {
	HTTPRequest *HTTPContextRequest `json:"httpRequest,omitempty"`
	User        string              `json:"user,omitempty"`
}

// ReportErrorRequest represents the JSON body for submitting one error
// event to the local ingest endpoint. Message is the only required field;
// it should contain the error text, ideally followed by a stack trace.
type ReportErrorRequest struct {
	Message        string                 `json:"message"`
	EventTime      *time.Time             `json:"eventTime,omitempty"`
	ServiceContext *ServiceContextRequest `json:"serviceContext,omitempty"`
	Context        *ReportContextRequest  `json:"context,omitempty"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *ReportErrorRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Message) == "" {
		fields["message"] = msgRequired
	}
	if r.ServiceContext != nil && strings.TrimSpace(r.ServiceContext.Service) == "" {
		fields["serviceContext.service"] = "must not be empty when provided"
	}
	if r.Context != nil && r.Context.HTTPRequest != nil {
		hr := r.Context.HTTPRequest
		if hr.ResponseStatusCode < 0 || hr.ResponseStatusCode > 599 {
			fields["context.httpRequest.responseStatusCode"] = "must be a valid HTTP status code"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
