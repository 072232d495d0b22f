package errapi

import (
	"time"

	"github.com/jsamuelsen11/errtrack/internal/domain/report"
)

// listEventsResponse is the wire shape of GET .../events.
type listEventsResponse struct {
	ErrorEvents    []report.ErrorEvent `json:"errorEvents"`
	NextPageToken  string              `json:"nextPageToken,omitempty"`
	TimeRangeBegin time.Time           `json:"timeRangeBegin,omitempty"`
}

// groupStatsDTO is one aggregated error group in the wire shape of
// GET .../groupStats.
type groupStatsDTO struct {
	Group struct {
		GroupID string `json:"groupId"`
	} `json:"group"`
	Count              int64              `json:"count"`
	AffectedUsersCount int64              `json:"affectedUsersCount"`
	FirstSeenTime      time.Time          `json:"firstSeenTime"`
	LastSeenTime       time.Time          `json:"lastSeenTime"`
	Representative     *report.ErrorEvent `json:"representative,omitempty"`
}

// listGroupStatsResponse is the wire shape of GET .../groupStats.
type listGroupStatsResponse struct {
	ErrorGroupStats []groupStatsDTO `json:"errorGroupStats"`
	NextPageToken   string          `json:"nextPageToken,omitempty"`
}

func toEventPage(dto listEventsResponse) *report.EventPage {
	return &report.EventPage{
		Events:         dto.ErrorEvents,
		NextPageToken:  dto.NextPageToken,
		TimeRangeBegin: dto.TimeRangeBegin,
	}
}

func toGroupStatsPage(dto listGroupStatsResponse) *report.GroupStatsPage {
	groups := make([]report.GroupStats, 0, len(dto.ErrorGroupStats))
	for _, g := range dto.ErrorGroupStats {
		groups = append(groups, report.GroupStats{
			GroupID:            g.Group.GroupID,
			Count:              g.Count,
			AffectedUsersCount: g.AffectedUsersCount,
			FirstSeenTime:      g.FirstSeenTime,
			LastSeenTime:       g.LastSeenTime,
			Representative:     g.Representative,
		})
	}
	return &report.GroupStatsPage{
		Groups:        groups,
		NextPageToken: dto.NextPageToken,
	}
}
