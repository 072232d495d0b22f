// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// EventListResponse represents a page of stored error events in HTTP
// responses. Events are already in the remote API's wire shape, so they are
// passed through unchanged.
type EventListResponse struct {
	ErrorEvents    []report.ErrorEvent `json:"errorEvents"`
	NextPageToken  string              `json:"nextPageToken,omitempty"`
	TimeRangeBegin time.Time           `json:"timeRangeBegin,omitzero"`
	Count          int                 `json:"count"`
}

// ToEventListResponse converts a domain EventPage to an HTTP response DTO.
func ToEventListResponse(p *report.EventPage) EventListResponse {
	return EventListResponse{
		ErrorEvents:    p.Events,
		NextPageToken:  p.NextPageToken,
		TimeRangeBegin: p.TimeRangeBegin,
		Count:          len(p.Events),
	}
}

// GroupStatsResponse represents one aggregated error group in HTTP responses.
type GroupStatsResponse struct {
	GroupID            string             `json:"groupId"`
	Count              int64              `json:"count"`
	AffectedUsersCount int64              `json:"affectedUsersCount"`
	FirstSeenTime      time.Time          `json:"firstSeenTime"`
	LastSeenTime       time.Time          `json:"lastSeenTime"`
	Representative     *report.ErrorEvent `json:"representative,omitempty"`
}

// GroupStatsListResponse represents a page of aggregated error groups in
// HTTP responses.
type GroupStatsListResponse struct {
	ErrorGroupStats []GroupStatsResponse `json:"errorGroupStats"`
	NextPageToken   string               `json:"nextPageToken,omitempty"`
	Count           int                  `json:"count"`
}

// ToGroupStatsListResponse converts a domain GroupStatsPage to an HTTP
// response DTO.
func ToGroupStatsListResponse(p *report.GroupStatsPage) GroupStatsListResponse {
	items := make([]GroupStatsResponse, len(p.Groups))
	for i, g := range p.Groups {
		items[i] = GroupStatsResponse{
			GroupID:            g.GroupID,
			Count:              g.Count,
			AffectedUsersCount: g.AffectedUsersCount,
			FirstSeenTime:      g.FirstSeenTime,
			LastSeenTime:       g.LastSeenTime,
			Representative:     g.Representative,
		}
	}
	return GroupStatsListResponse{
		ErrorGroupStats: items,
		NextPageToken:   p.NextPageToken,
		Count:           len(items),
	}
}
