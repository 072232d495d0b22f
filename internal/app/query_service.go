package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen11/errtrack/internal/domain/query"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// Compile-time check that QueryService implements ports.QueryService.
var _ ports.QueryService = (*QueryService)(nil)

// QueryService implements ports.QueryService by resolving caller input into
// validated listing options and delegating to the error-API client port.
// Validation failures are returned before any network attempt.
type QueryService struct {
	client ports.ErrorClient
	logger *slog.Logger
}

// NewQueryService creates a QueryService backed by the given client port.
func NewQueryService(client ports.ErrorClient, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &QueryService{client: client, logger: logger}
}

// ListEvents returns a page of events matching the input options. The input
// follows the query.Populate contract (group ID string, *query.Builder,
// query.Params, or decoded JSON object).
func (s *QueryService) ListEvents(ctx context.Context, input any) (*report.EventPage, error) {
	opts, err := query.Populate(input)
	if err != nil {
		return nil, err
	}

	page, err := s.client.ListEvents(ctx, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list error events",
			slog.String("operation", "ListEvents"),
			slog.String("group_id", opts.GroupID()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return page, nil
}

// ListGroupStats returns aggregated per-group statistics matching the input
// options.
func (s *QueryService) ListGroupStats(ctx context.Context, input any) (*report.GroupStatsPage, error) {
	opts, err := query.Populate(input)
	if err != nil {
		return nil, err
	}

	page, err := s.client.ListGroupStats(ctx, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list group stats",
			slog.String("operation", "ListGroupStats"),
			slog.String("group_id", opts.GroupID()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return page, nil
}

// DeleteEvents deletes all events for the resolved project.
func (s *QueryService) DeleteEvents(ctx context.Context) error {
	if err := s.client.DeleteEvents(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete error events",
			slog.String("operation", "DeleteEvents"),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
