package errapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen11/errtrack/internal/app/agentcfg"
	"github.com/jsamuelsen11/errtrack/internal/domain"
	"github.com/jsamuelsen11/errtrack/internal/domain/query"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/platform/httpclient"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// Compile-time interface check.
var _ ports.ErrorClient = (*Client)(nil)

// Client is the outbound adapter for the remote error-tracking API. It
// implements [ports.ErrorClient] (report, list, group stats, delete).
//
// Every call runs the same pipeline: credentials check, project-identifier
// resolution against the runtime configuration, URL construction
// (<base>/projects/<id>/<endpoint>[?query]), execution through the
// instrumented [httpclient.Client], and error translation. The first two
// stages short-circuit with domain errors before any network attempt.
type Client struct {
	req    *Requester
	cfg    *agentcfg.Config
	logger *slog.Logger
}

// NewClient creates a Client that sends requests through the given
// [httpclient.Client]. The client's BaseURL should point to the API root
// (e.g. "https://errors.example.com/v1beta1"). The runtime configuration
// supplies the project identifier and API key once settled.
func NewClient(client *httpclient.Client, cfg *agentcfg.Config, logger *slog.Logger) *Client {
	return &Client{
		req:    NewRequester(client, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// ReportEvent delivers one error event via POST .../events:report.
func (c *Client) ReportEvent(ctx context.Context, ev *report.ErrorEvent) error {
	path, err := c.buildPath("events:report", nil)
	if err != nil {
		return err
	}
	return c.req.Do(ctx, "ReportEvent", http.MethodPost, path, ev, nil)
}

// ListEvents fetches a page of events via GET .../events using the
// flattened export of the given options.
func (c *Client) ListEvents(ctx context.Context, opts *query.Builder) (*report.EventPage, error) {
	path, err := c.buildPath("events", opts)
	if err != nil {
		return nil, err
	}

	var dto listEventsResponse
	if err := c.req.Do(ctx, "ListEvents", http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toEventPage(dto), nil
}

// ListGroupStats fetches aggregated error-group statistics via
// GET .../groupStats.
func (c *Client) ListGroupStats(ctx context.Context, opts *query.Builder) (*report.GroupStatsPage, error) {
	path, err := c.buildPath("groupStats", opts)
	if err != nil {
		return nil, err
	}

	var dto listGroupStatsResponse
	if err := c.req.Do(ctx, "ListGroupStats", http.MethodGet, path, nil, &dto); err != nil {
		return nil, err
	}
	return toGroupStatsPage(dto), nil
}

// DeleteEvents deletes all events for the resolved project via
// DELETE .../events.
func (c *Client) DeleteEvents(ctx context.Context) error {
	path, err := c.buildPath("events", nil)
	if err != nil {
		return err
	}
	return c.req.Do(ctx, "DeleteEvents", http.MethodDelete, path, nil, nil)
}

// buildPath runs the pre-network stages of the call pipeline: the
// credentials check, project-identifier resolution, and URL construction.
// The query string merges the exported options with the key parameter; the
// key uses a distinct parameter name, so there is no genuine collision with
// exported option keys.
func (c *Client) buildPath(endpoint string, opts *query.Builder) (string, error) {
	if !c.cfg.CredentialsAvailable() {
		return "", fmt.Errorf("no API key configured: %w", domain.ErrNotConfigured)
	}

	projectID, err := c.cfg.ProjectID()
	if err != nil {
		return "", err
	}

	q := url.Values{}
	if opts != nil {
		for k, v := range opts.Export() {
			q.Set(k, v)
		}
	}
	if key := c.cfg.APIKey(); key != "" {
		q.Set("key", key)
	}

	path := "/projects/" + url.PathEscape(projectID) + "/" + endpoint
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}
