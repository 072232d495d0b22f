package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/dto"
	"github.com/jsamuelsen11/errtrack/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/errtrack/internal/domain"
)

func TestReportError_Accepted(t *testing.T) {
	t.Parallel()

	reporter := &fakeReporter{}
	h := handlers.NewReportHandler(reporter)

	body := jsonBody(t, dto.ReportErrorRequest{
		Message: "runtime error: index out of range\n    at main.process (main.go:42)",
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/errors", body)
	h.ReportError(rec, req)

	requireStatus(t, rec, http.StatusAccepted)

	if len(reporter.events) != 1 {
		t.Fatalf("reported %d events, want 1", len(reporter.events))
	}
	ev := reporter.events[0]
	if !strings.HasPrefix(ev.Message, "runtime error") {
		t.Errorf("Message = %q, want runtime error prefix", ev.Message)
	}
	if ev.ServiceContext.Service != "checkout" {
		t.Errorf("Service = %q, want inherited %q", ev.ServiceContext.Service, "checkout")
	}
}

func TestReportError_OverridesServiceContextAndTime(t *testing.T) {
	t.Parallel()

	reporter := &fakeReporter{}
	h := handlers.NewReportHandler(reporter)

	body := jsonBody(t, dto.ReportErrorRequest{
		Message:        "boom",
		EventTime:      &testTime,
		ServiceContext: &dto.ServiceContextRequest{Service: "billing", Version: "2.0.0"},
		Context: &dto.ReportContextRequest{
			User: "user-7",
			HTTPRequest: &dto.HTTPContextRequest{
				Method:             http.MethodGet,
				URL:                "https://shop.example.com/cart",
				ResponseStatusCode: 500,
			},
		},
	})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/errors", body)
	h.ReportError(rec, req)

	requireStatus(t, rec, http.StatusAccepted)

	ev := reporter.events[0]
	if !ev.EventTime.Equal(testTime) {
		t.Errorf("EventTime = %v, want %v", ev.EventTime, testTime)
	}
	if ev.ServiceContext.Service != "billing" || ev.ServiceContext.Version != "2.0.0" {
		t.Errorf("ServiceContext = %+v, want billing/2.0.0", ev.ServiceContext)
	}
	if ev.Context == nil || ev.Context.User != "user-7" {
		t.Fatalf("Context.User not carried through: %+v", ev.Context)
	}
	if ev.Context.HTTPRequest == nil || ev.Context.HTTPRequest.ResponseStatusCode != 500 {
		t.Errorf("HTTPRequest not carried through: %+v", ev.Context.HTTPRequest)
	}
}

func TestReportError_MissingMessage(t *testing.T) {
	t.Parallel()

	reporter := &fakeReporter{}
	h := handlers.NewReportHandler(reporter)

	body := jsonBody(t, dto.ReportErrorRequest{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/errors", body)
	h.ReportError(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)

	if len(reporter.events) != 0 {
		t.Errorf("reported %d events, want 0", len(reporter.events))
	}
}

func TestReportError_InvalidJSON(t *testing.T) {
	t.Parallel()

	reporter := &fakeReporter{}
	h := handlers.NewReportHandler(reporter)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/errors", strings.NewReader("{not json"))
	h.ReportError(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestReportError_ReporterFailure(t *testing.T) {
	t.Parallel()

	reporter := &fakeReporter{reportErr: domain.ErrUnavailable}
	h := handlers.NewReportHandler(reporter)

	body := jsonBody(t, dto.ReportErrorRequest{Message: "boom"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/errors", body)
	h.ReportError(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
}
