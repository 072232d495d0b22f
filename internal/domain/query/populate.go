package query

import (
	"fmt"

	"github.com/jsamuelsen11/errtrack/internal/domain"
)

// Params is the structured form of a listing request, typically decoded from
// a caller-supplied JSON body or constructed directly in code.
type Params struct {
	GroupID       string         `json:"groupId"`
	ServiceFilter *ServiceFilter `json:"serviceFilter,omitempty"`
	TimeRange     TimeRange      `json:"timeRange,omitempty"`
	PageSize      int            `json:"pageSize,omitempty"`
	PageToken     string         `json:"pageToken,omitempty"`
}

// Populate resolves caller input into a validated Builder. It accepts:
//
//   - string: interpreted as the group ID
//   - *Builder: passed through unchanged
//   - Params / *Params: validated field by field
//   - map[string]any: a decoded JSON object, validated field by field
//
// Anything else is a validation error. Validation stops at the first failing
// field; errors wrap domain.ErrValidation and are returned, never panicked.
func Populate(input any) (*Builder, error) {
	switch v := input.(type) {
	case string:
		if v == "" {
			return nil, fieldErr("groupId", "must not be empty")
		}
		return NewBuilder().SetGroupID(v), nil

	case *Builder:
		if v == nil {
			return nil, fieldErr("options", "must not be nil")
		}
		return v, nil

	case Params:
		return fromParams(&v)

	case *Params:
		if v == nil {
			return nil, fieldErr("options", "must not be nil")
		}
		return fromParams(v)

	case map[string]any:
		return fromMap(v)

	default:
		return nil, fieldErr("options", fmt.Sprintf("unsupported input type %T", input))
	}
}

func fromParams(p *Params) (*Builder, error) {
	if p.GroupID == "" {
		return nil, fieldErr("groupId", "must not be empty")
	}

	b := NewBuilder().SetGroupID(p.GroupID)

	if p.ServiceFilter != nil {
		b.SetServiceFilter(p.ServiceFilter.Service, p.ServiceFilter.Version, p.ServiceFilter.ResourceType)
	}
	if p.TimeRange != "" {
		if !p.TimeRange.IsValid() {
			return nil, fieldErr("timeRange", fmt.Sprintf("unrecognized period %q", p.TimeRange))
		}
		b.SetTimeRange(p.TimeRange)
	}
	if p.PageSize != 0 {
		if p.PageSize < 0 {
			return nil, fieldErr("pageSize", "must be positive")
		}
		b.SetPageSize(p.PageSize)
	}
	if p.PageToken != "" {
		b.SetPageToken(p.PageToken)
	}

	return b, nil
}

// fromMap validates a decoded JSON object. JSON numbers arrive as float64;
// every other field must be string-typed. Validation stops at the first
// failing field.
func fromMap(m map[string]any) (*Builder, error) {
	groupID, ok := m["groupId"].(string)
	if !ok || groupID == "" {
		return nil, fieldErr("groupId", "must be a non-empty string")
	}

	b := NewBuilder().SetGroupID(groupID)

	if raw, present := m["serviceFilter"]; present {
		sf, err := serviceFilterFromMap(raw)
		if err != nil {
			return nil, err
		}
		b.SetServiceFilter(sf.Service, sf.Version, sf.ResourceType)
	}

	if raw, present := m["timeRange"]; present {
		s, ok := raw.(string)
		if !ok {
			return nil, fieldErr("timeRange", "must be a string")
		}
		tr := TimeRange(s)
		if !tr.IsValid() {
			return nil, fieldErr("timeRange", fmt.Sprintf("unrecognized period %q", s))
		}
		b.SetTimeRange(tr)
	}

	if raw, present := m["pageSize"]; present {
		n, ok := raw.(float64)
		if !ok {
			return nil, fieldErr("pageSize", "must be a number")
		}
		if n <= 0 {
			return nil, fieldErr("pageSize", "must be positive")
		}
		b.SetPageSize(int(n))
	}

	if raw, present := m["pageToken"]; present {
		tok, ok := raw.(string)
		if !ok {
			return nil, fieldErr("pageToken", "must be a string")
		}
		b.SetPageToken(tok)
	}

	return b, nil
}

func serviceFilterFromMap(raw any) (ServiceFilter, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ServiceFilter{}, fieldErr("serviceFilter", "must be an object")
	}

	var sf ServiceFilter
	for key, dst := range map[string]*string{
		"service":      &sf.Service,
		"version":      &sf.Version,
		"resourceType": &sf.ResourceType,
	} {
		v, present := obj[key]
		if !present {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return ServiceFilter{}, fieldErr("serviceFilter."+key, "must be a string")
		}
		*dst = s
	}
	return sf, nil
}

func fieldErr(field, msg string) error {
	return &domain.ValidationError{Fields: map[string]string{field: msg}}
}
