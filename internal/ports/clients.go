package ports

import (
	"context"

	"github.com/jsamuelsen11/errtrack/internal/domain/query"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// ErrorClient defines the client port for the remote error-tracking API.
// Implemented by the errapi adapter; called by the application layer.
//
// Every method short-circuits with domain.ErrNotConfigured when no
// credentials are available and with domain.ErrProjectUnresolved when the
// runtime configuration never settled on a project identifier — in both
// cases before any network attempt.
type ErrorClient interface {
	// ReportEvent delivers one error event to the remote service.
	ReportEvent(ctx context.Context, ev *report.ErrorEvent) error

	// ListEvents returns a page of events matching the given options.
	ListEvents(ctx context.Context, opts *query.Builder) (*report.EventPage, error)

	// ListGroupStats returns aggregated statistics for error groups
	// matching the given options.
	ListGroupStats(ctx context.Context, opts *query.Builder) (*report.GroupStatsPage, error)

	// DeleteEvents deletes all events for the resolved project.
	DeleteEvents(ctx context.Context) error
}

// ProjectResolver defines the metadata-service capability used to discover
// the running process's project number. It is consulted exactly once per
// runtime configuration lifetime, at construction.
type ProjectResolver interface {
	// ProjectNumber fetches the numeric project identifier from the
	// environment-local metadata endpoint. A failure is recoverable:
	// the runtime configuration can still settle from environment
	// variables or supplied configuration.
	ProjectNumber(ctx context.Context) (string, error)
}
