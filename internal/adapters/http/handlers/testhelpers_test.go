package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jsamuelsen11/errtrack/internal/domain/report"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

// fakeRegistry returns canned health-check results.
type fakeRegistry struct {
	results map[string]error
}

func (f *fakeRegistry) Register(ports.HealthChecker) {}

func (f *fakeRegistry) CheckAll(context.Context) map[string]error {
	return f.results
}

// fakeReporter records submitted events and returns a configurable error.
type fakeReporter struct {
	reportErr error
	events    []*report.ErrorEvent
	panics    []any
}

func (f *fakeReporter) Report(_ context.Context, ev *report.ErrorEvent) error {
	f.events = append(f.events, ev)
	return f.reportErr
}

func (f *fakeReporter) ReportPanic(_ context.Context, v any, _ *report.HTTPContext) {
	f.panics = append(f.panics, v)
}

func (f *fakeReporter) NewEvent() *report.ErrorEvent {
	return report.NewEvent(report.ServiceContext{Service: "checkout", Version: "1.4.2"})
}

// fakeQueryService records the input it was called with and returns canned
// pages.
type fakeQueryService struct {
	gotInput   any
	eventsPage *report.EventPage
	statsPage  *report.GroupStatsPage
	err        error
	deleted    bool
}

func (f *fakeQueryService) ListEvents(_ context.Context, input any) (*report.EventPage, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.eventsPage, nil
}

func (f *fakeQueryService) ListGroupStats(_ context.Context, input any) (*report.GroupStatsPage, error) {
	f.gotInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.statsPage, nil
}

func (f *fakeQueryService) DeleteEvents(context.Context) error {
	f.deleted = true
	return f.err
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
