// Package handlers contains chi HTTP handlers for the local ingest API.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/dto"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// ReportHandler handles error-event submissions from instrumented
// applications on the local ingest endpoint.
type ReportHandler struct {
	reporter ports.Reporter
}

// NewReportHandler creates a new ReportHandler with the given reporter service.
func NewReportHandler(reporter ports.Reporter) *ReportHandler {
	return &ReportHandler{reporter: reporter}
}

// ReportError handles POST /v1/errors. The submitted event is accepted as
// soon as it passes validation; delivery to the remote service is
// asynchronous with respect to the caller when the agent is still resolving
// its configuration.
func (h *ReportHandler) ReportError(w http.ResponseWriter, r *http.Request) {
	var req dto.ReportErrorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ev := mapReportRequest(&req, h.reporter.NewEvent())

	if err := h.reporter.Report(r.Context(), ev); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
