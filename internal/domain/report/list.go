package report

import "time"

// EventPage is one page of read-back error events.
type EventPage struct {
	Events         []ErrorEvent
	NextPageToken  string
	TimeRangeBegin time.Time
}

// GroupStats aggregates occurrences of one error group over the queried
// time range.
type GroupStats struct {
	GroupID            string
	Count              int64
	AffectedUsersCount int64
	FirstSeenTime      time.Time
	LastSeenTime       time.Time
	Representative     *ErrorEvent
}

// GroupStatsPage is one page of error-group statistics.
type GroupStatsPage struct {
	Groups        []GroupStats
	NextPageToken string
}
