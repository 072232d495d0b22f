package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/dto"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// errInternalServer is the generic error returned to clients when a panic is
// recovered. The actual panic value and stack trace are logged but never
// exposed in the HTTP response.
var errInternalServer = errors.New("internal server error")

// Recovery returns middleware that recovers from panics in downstream
// handlers. When a panic occurs the middleware logs the error with the full
// stack trace, forwards it to the reporter as an uncaught error with the
// request's HTTP context attached, and returns an RFC 9457 500 response. If
// the response headers have already been written, only the log entry and
// report are emitted. A nil reporter disables forwarding.
func Recovery(logger *slog.Logger, reporter ports.Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)

			defer func() {
				if v := recover(); v != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.String("panic", fmt.Sprint(v)),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					if reporter != nil {
						reporter.ReportPanic(r.Context(), v, httpContextFor(r))
					}

					if !rw.headerWritten {
						dto.WriteErrorResponse(rw, r, errInternalServer)
					}
				}
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// httpContextFor captures the parts of the request worth attaching to a
// reported panic.
func httpContextFor(r *http.Request) *report.HTTPContext {
	return &report.HTTPContext{
		Method:             r.Method,
		URL:                r.URL.String(),
		UserAgent:          r.UserAgent(),
		Referrer:           r.Referer(),
		ResponseStatusCode: http.StatusInternalServerError,
		RemoteIP:           r.RemoteAddr,
	}
}
