package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/errtrack/internal/adapters/http/dto"
	"github.com/jsamuelsen11/errtrack/internal/ports"
)

// EventsHandler handles read-back and deletion of stored error events via
// the query service.
type EventsHandler struct {
	service ports.QueryService
}

// NewEventsHandler creates a new EventsHandler with the given query service.
func NewEventsHandler(service ports.QueryService) *EventsHandler {
	return &EventsHandler{service: service}
}

// ListEvents handles GET /v1/errors. Listing options come from URL query
// parameters (groupId, service, version, resourceType, period, pageSize,
// pageToken); groupId is required.
func (h *EventsHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	params, err := parseListQuery(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	page, err := h.service.ListEvents(r.Context(), params)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(page))
}

// ListGroupStats handles GET /v1/groupstats using the same query parameters
// as ListEvents.
func (h *EventsHandler) ListGroupStats(w http.ResponseWriter, r *http.Request) {
	params, err := parseListQuery(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	page, err := h.service.ListGroupStats(r.Context(), params)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToGroupStatsListResponse(page))
}

// DeleteEvents handles DELETE /v1/errors. It deletes all stored events for
// the resolved project.
func (h *EventsHandler) DeleteEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvents(r.Context()); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
