// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port
// interfaces.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen11/errtrack/internal/app/agentcfg"
	"github.com/jsamuelsen11/errtrack/internal/app/fanout"
	"github.com/jsamuelsen11/errtrack/internal/app/pending"
	"github.com/jsamuelsen11/errtrack/internal/domain"
	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/platform/telemetry"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// Compile-time check that Reporter implements ports.Reporter.
var _ ports.Reporter = (*Reporter)(nil)

const (
	// flushWorkers bounds the concurrency of the post-settlement flush.
	flushWorkers = 4

	// flushTimeout bounds how long the flush of buffered events may take.
	flushTimeout = 30 * time.Second
)

// Reporter implements ports.Reporter. It gates delivery on the runtime
// configuration's settlement: events reported while the configuration is
// Pending are buffered and flushed on Ready; after a failed settlement the
// agent degrades to a silent no-op rather than surfacing errors into the
// caller's request path.
type Reporter struct {
	cfg     *agentcfg.Config
	client  ports.ErrorClient
	buf     *pending.Buffer
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewReporter creates a Reporter and subscribes it to the runtime
// configuration's settlement events. If metrics is nil, metric recording is
// skipped.
func NewReporter(cfg *agentcfg.Config, client ports.ErrorClient, logger *slog.Logger, metrics *telemetry.Metrics) *Reporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Reporter{
		cfg:     cfg,
		client:  client,
		buf:     pending.NewBuffer(pending.DefaultCapacity),
		logger:  logger,
		metrics: metrics,
	}

	cfg.OnReady(r.flushPending)
	cfg.OnError(r.dropPending)

	return r
}

// NewEvent creates an event pre-populated with the resolved service context.
// Before settlement the service context may still be empty; Report fills it
// in once the configuration is Ready.
func (r *Reporter) NewEvent() *report.ErrorEvent {
	return report.NewEvent(r.cfg.ServiceContext())
}

// Report validates and delivers one event. Validation failures are returned
// to the caller; delivery is gated on the runtime configuration:
//
//   - Pending: the event is buffered and nil is returned.
//   - Failed or reporting disabled: the event is dropped silently.
//   - Ready: the event is delivered; transport errors are logged and
//     returned with the original error preserved for inspection.
func (r *Reporter) Report(ctx context.Context, ev *report.ErrorEvent) error {
	if sc := r.cfg.ServiceContext(); ev.ServiceContext.Service == "" {
		ev.SetServiceContext(sc.Service, sc.Version)
	}

	switch r.cfg.State() {
	case agentcfg.StatePending:
		// The service context may still be unresolved, so full validation
		// waits for the flush; only the message is checked here.
		if strings.TrimSpace(ev.Message) == "" {
			return &domain.ValidationError{Fields: map[string]string{"message": "must not be empty"}}
		}
		if !r.buf.Add(ev) {
			r.recordDropped(ctx, "buffer_full")
			r.logger.WarnContext(ctx, "pending buffer full, dropping event")
		}
		return nil

	case agentcfg.StateFailed:
		r.recordDropped(ctx, "unconfigured")
		r.logger.DebugContext(ctx, "configuration failed to settle, dropping event")
		return nil
	}

	if err := ev.Validate(); err != nil {
		return err
	}

	if !r.cfg.ReportingEnabled() {
		r.recordDropped(ctx, "reporting_disabled")
		r.logger.DebugContext(ctx, "reporting disabled, dropping event")
		return nil
	}

	if err := r.client.ReportEvent(ctx, ev); err != nil {
		r.logger.ErrorContext(ctx, "failed to report error event",
			slog.String("operation", "Report"),
			slog.Any("error", err),
		)
		return err
	}

	r.recordReported(ctx, 1)
	return nil
}

// ReportPanic reports a recovered panic value together with the HTTP context
// of the request being served, if any. Fire-and-forget: delivery errors are
// logged, never returned, so recovery paths stay panic- and error-free.
func (r *Reporter) ReportPanic(ctx context.Context, v any, hc *report.HTTPContext) {
	if !r.cfg.ReportUncaught() {
		return
	}

	ev := r.NewEvent().CapturePanic(v, 1).SetHTTPContext(hc)
	if err := r.Report(ctx, ev); err != nil {
		r.logger.ErrorContext(ctx, "failed to report panic",
			slog.String("operation", "ReportPanic"),
			slog.Any("error", err),
		)
	}
}

// flushPending delivers everything buffered before settlement with bounded
// concurrency. Runs on the settlement callback.
func (r *Reporter) flushPending() {
	events := r.buf.Drain()
	if len(events) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if !r.cfg.ReportingEnabled() {
		r.recordDropped(ctx, "reporting_disabled")
		r.logger.Debug("reporting disabled, discarding buffered events",
			slog.Int("count", len(events)),
		)
		return
	}

	sc := r.cfg.ServiceContext()
	results := fanout.Run(ctx, flushWorkers, events,
		func(ctx context.Context, ev *report.ErrorEvent) (struct{}, error) {
			if ev.ServiceContext.Service == "" {
				ev.SetServiceContext(sc.Service, sc.Version)
			}
			if err := ev.Validate(); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, r.client.ReportEvent(ctx, ev)
		})

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	r.recordReported(ctx, int64(len(events)-failed))
	r.logger.Info("flushed buffered events",
		slog.Int("count", len(events)),
		slog.Int("failed", failed),
	)
}

// dropPending discards the buffer after a failed settlement.
func (r *Reporter) dropPending(err error) {
	events := r.buf.Drain()
	if len(events) > 0 {
		r.recordDropped(context.Background(), "unconfigured")
	}
	r.logger.Warn("runtime configuration failed, agent is offline",
		slog.Int("discarded", len(events)),
		slog.Any("error", err),
	)
}

func (r *Reporter) recordReported(ctx context.Context, n int64) {
	if r.metrics == nil || n <= 0 {
		return
	}
	r.metrics.EventsReportedTotal.Add(ctx, n)
}

func (r *Reporter) recordDropped(ctx context.Context, reason string) {
	if r.metrics == nil {
		return
	}
	r.metrics.EventsDroppedTotal.Add(ctx, 1,
		metric.WithAttributes(telemetry.AttrDropReason.String(reason)))
}
