// Package query builds the parameter set for read-back listings against the
// remote error-tracking API. A Builder is created per query, populated
// through chainable setters, and exported once into the flat string mapping
// the API's query string expects (nested records become "parent.child" keys;
// the API does not accept structured values).
package query

import "strconv"

// DefaultPageSize is the page size assumed when a listing request does not
// name one. Export omits the field entirely in that case; callers that need
// an explicit size apply this default before building.
const DefaultPageSize = 10

// ServiceFilter narrows a listing to events from one service. Empty
// subfields mean "no filter" for that dimension.
type ServiceFilter struct {
	Service      string
	Version      string
	ResourceType string
}

func (f ServiceFilter) isZero() bool {
	return f == ServiceFilter{}
}

// Builder accumulates listing parameters. The zero value is usable; setters
// return the receiver for chaining. Export does not mutate the builder, so a
// Builder may be exported repeatedly with identical results.
type Builder struct {
	groupID       string
	serviceFilter ServiceFilter
	timeRange     TimeRange
	pageSize      int
	pageToken     string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetGroupID sets the required error-group identifier.
func (b *Builder) SetGroupID(id string) *Builder {
	b.groupID = id
	return b
}

// SetServiceFilter stores the non-empty subfields of a service filter.
// Empty strings are dropped; if every subfield is empty the filter is
// omitted entirely from the export.
func (b *Builder) SetServiceFilter(service, version, resourceType string) *Builder {
	b.serviceFilter = ServiceFilter{
		Service:      service,
		Version:      version,
		ResourceType: resourceType,
	}
	return b
}

// SetTimeRange stores the named period. Validation of unrecognized tokens is
// the populating layer's concern (see Populate), not the builder's.
func (b *Builder) SetTimeRange(t TimeRange) *Builder {
	b.timeRange = t
	return b
}

// SetPageSize sets the maximum number of results per page.
func (b *Builder) SetPageSize(n int) *Builder {
	b.pageSize = n
	return b
}

// SetPageToken sets the continuation token from a previous listing.
func (b *Builder) SetPageToken(tok string) *Builder {
	b.pageToken = tok
	return b
}

// GroupID returns the group identifier currently set on the builder.
func (b *Builder) GroupID() string {
	return b.groupID
}

// Export produces the flat, service-ready parameter mapping. Fields that
// fail their inclusion predicate (empty strings, zero records, non-positive
// sizes) are omitted; record-valued fields are flattened into
// "parent.child" keys. Export is pure: it never mutates the builder.
func (b *Builder) Export() map[string]string {
	out := make(map[string]string)

	if b.groupID != "" {
		out["groupId"] = b.groupID
	}

	if !b.serviceFilter.isZero() {
		if b.serviceFilter.Service != "" {
			out["serviceFilter.service"] = b.serviceFilter.Service
		}
		if b.serviceFilter.Version != "" {
			out["serviceFilter.version"] = b.serviceFilter.Version
		}
		if b.serviceFilter.ResourceType != "" {
			out["serviceFilter.resourceType"] = b.serviceFilter.ResourceType
		}
	}

	if b.timeRange != "" {
		out["timeRange.period"] = b.timeRange.String()
	}

	if b.pageSize > 0 {
		out["pageSize"] = strconv.Itoa(b.pageSize)
	}

	if b.pageToken != "" {
		out["pageToken"] = b.pageToken
	}

	return out
}
