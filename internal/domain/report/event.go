// Package report defines the error event payload sent to the remote
// error-tracking API. An ErrorEvent is created per reported error, populated
// incrementally through chainable setters, sent once, and discarded.
package report

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/jsamuelsen11/errtrack/internal/domain"
)

// ServiceContext identifies the reporting application to the remote service.
type ServiceContext struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// HTTPContext describes the HTTP request during which an error was observed.
// Zero-value fields are omitted from the serialized payload.
type HTTPContext struct {
	Method             string `json:"method,omitempty"`
	URL                string `json:"url,omitempty"`
	UserAgent          string `json:"userAgent,omitempty"`
	Referrer           string `json:"referrer,omitempty"`
	ResponseStatusCode int    `json:"responseStatusCode,omitempty"`
	RemoteIP           string `json:"remoteIp,omitempty"`
}

// ReportLocation pinpoints the source location where an error was reported,
// used when no stack trace is available in the message.
type ReportLocation struct {
	FilePath     string `json:"filePath,omitempty"`
	LineNumber   int    `json:"lineNumber,omitempty"`
	FunctionName string `json:"functionName,omitempty"`
}

// Context carries the contextual portion of an error event.
type Context struct {
	HTTPRequest    *HTTPContext    `json:"httpRequest,omitempty"`
	User           string          `json:"user,omitempty"`
	ReportLocation *ReportLocation `json:"reportLocation,omitempty"`
}

// ErrorEvent is one error occurrence in the remote API's wire shape.
type ErrorEvent struct {
	EventTime      time.Time      `json:"eventTime"`
	ServiceContext ServiceContext `json:"serviceContext"`
	Message        string         `json:"message"`
	Context        *Context       `json:"context,omitempty"`
}

// NewEvent creates an ErrorEvent stamped with the current time and the
// owning configuration's service context. Both can be overridden per
// instance through the setters.
func NewEvent(sc ServiceContext) *ErrorEvent {
	return &ErrorEvent{
		EventTime:      time.Now().UTC(),
		ServiceContext: sc,
	}
}

// SetMessage replaces the event message.
func (e *ErrorEvent) SetMessage(msg string) *ErrorEvent {
	e.Message = msg
	return e
}

// SetServiceContext overrides the service context inherited at creation.
// Empty arguments leave the inherited values in place.
func (e *ErrorEvent) SetServiceContext(service, version string) *ErrorEvent {
	if service != "" {
		e.ServiceContext.Service = service
	}
	if version != "" {
		e.ServiceContext.Version = version
	}
	return e
}

// SetUser records the identifier of the user affected by the error.
func (e *ErrorEvent) SetUser(user string) *ErrorEvent {
	e.ensureContext().User = user
	return e
}

// SetHTTPContext attaches the HTTP request context in which the error
// occurred. A nil argument is a no-op.
func (e *ErrorEvent) SetHTTPContext(hc *HTTPContext) *ErrorEvent {
	if hc == nil {
		return e
	}
	e.ensureContext().HTTPRequest = hc
	return e
}

// CaptureError sets the message to the error text followed by a formatted
// stack trace of the caller, matching the "message: stack" shape the remote
// service parses for grouping. skip frames are dropped from the top of the
// stack in addition to CaptureError itself.
func (e *ErrorEvent) CaptureError(err error, skip int) *ErrorEvent {
	if err == nil {
		return e
	}
	e.Message = err.Error() + "\n" + formatStack(skip+2)
	e.setReportLocation(skip + 2)
	return e
}

// CapturePanic records a recovered panic value with the current stack.
func (e *ErrorEvent) CapturePanic(v any, skip int) *ErrorEvent {
	e.Message = fmt.Sprintf("panic: %v\n%s", v, formatStack(skip+2))
	e.setReportLocation(skip + 2)
	return e
}

// Validate checks that the event carries the minimum payload the remote
// service accepts. Returns a *domain.ValidationError or nil.
func (e *ErrorEvent) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(e.Message) == "" {
		fields["message"] = "must not be empty"
	}
	if strings.TrimSpace(e.ServiceContext.Service) == "" {
		fields["serviceContext.service"] = "must not be empty"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (e *ErrorEvent) ensureContext() *Context {
	if e.Context == nil {
		e.Context = &Context{}
	}
	return e.Context
}

// setReportLocation records the first non-runtime frame above skip.
func (e *ErrorEvent) setReportLocation(skip int) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return
	}
	loc := &ReportLocation{FilePath: file, LineNumber: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.FunctionName = fn.Name()
	}
	e.ensureContext().ReportLocation = loc
}

// maxStackFrames bounds the formatted stack to keep payloads small.
const maxStackFrames = 32

// formatStack renders the calling goroutine's stack starting at skip in a
// "    at func (file:line)" layout, one frame per line.
func formatStack(skip int) string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "    at %s (%s:%d)\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
