package ports

import (
	"context"

	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// Reporter defines the service port for shipping error events.
// Implemented by the application layer; called by inbound adapters.
type Reporter interface {
	// Report validates and delivers one event. Before the runtime
	// configuration settles, events are buffered and flushed at
	// settlement; after a failed settlement, events are dropped silently
	// (offline degradation, never an error to the caller's request path).
	Report(ctx context.Context, ev *report.ErrorEvent) error

	// ReportPanic reports a recovered panic value with the HTTP context
	// of the request being served, if any. Fire-and-forget: delivery
	// errors are logged, not returned.
	ReportPanic(ctx context.Context, v any, hc *report.HTTPContext)

	// NewEvent creates an event pre-populated with the resolved service
	// context.
	NewEvent() *report.ErrorEvent
}

// QueryService defines the service port for read-back operations.
// Implemented by the application layer; called by inbound adapters.
// The input parameter follows the query.Populate contract: a group ID
// string, a *query.Builder, a query.Params, or a decoded JSON object.
type QueryService interface {
	// ListEvents returns a page of events matching the input options.
	ListEvents(ctx context.Context, input any) (*report.EventPage, error)

	// ListGroupStats returns aggregated per-group statistics matching
	// the input options.
	ListGroupStats(ctx context.Context, input any) (*report.GroupStatsPage, error)

	// DeleteEvents deletes all events for the resolved project.
	DeleteEvents(ctx context.Context) error
}
