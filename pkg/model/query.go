package model

import (
	"sort"
	"time"
)

// Dimension names a filterable field of the session collection.
type Dimension string

const (
	DimensionUser       Dimension = "user"
	DimensionMAC        Dimension = "mac"
	DimensionAPIP       Dimension = "ap_ip"
	DimensionAPName     Dimension = "ap_name"
	DimensionServer     Dimension = "server"
	DimensionReasonCode Dimension = "reason_code"
	DimensionSessionID  Dimension = "session_id"
	DimensionPacketType Dimension = "packet_type"
)

// Dimensions lists every indexed dimension in canonical order.
var Dimensions = []Dimension{
	DimensionUser,
	DimensionMAC,
	DimensionAPIP,
	DimensionAPName,
	DimensionServer,
	DimensionReasonCode,
	DimensionSessionID,
	DimensionPacketType,
}

// IsValid reports whether the dimension is one of the indexed dimensions.
func (d Dimension) IsValid() bool {
	for _, known := range Dimensions {
		if d == known {
			return true
		}
	}
	return false
}

// TimeWindow restricts results to sessions whose span intersects
// [Center-Radius, Center+Radius].
type TimeWindow struct {
	Center time.Time     `json:"center"`
	Radius time.Duration `json:"radius"`
}

// FilterSpec is the canonical query structure. Filters compose
// conjunctively across dimensions; multiple values within one dimension
// compose disjunctively.
type FilterSpec struct {
	// TextSearch is a case-insensitive substring match across all display
	// columns. Applied last, over the index-selected candidates.
	TextSearch string `json:"text_search,omitempty"`

	// FieldFilters maps a dimension to the accepted exact values.
	FieldFilters map[Dimension][]string `json:"field_filters,omitempty"`

	// ErrorsOnly restricts results to sessions whose outcome is an error
	// (rejected, challenged, or incomplete).
	ErrorsOnly bool `json:"errors_only,omitempty"`

	// TimeWindow, when non-nil, restricts results to sessions intersecting
	// the window.
	TimeWindow *TimeWindow `json:"time_window,omitempty"`
}

// Clone returns a deep copy of the spec. Useful for derived filters that
// must not mutate the caller's spec.
func (f FilterSpec) Clone() FilterSpec {
	out := f
	if f.FieldFilters != nil {
		out.FieldFilters = make(map[Dimension][]string, len(f.FieldFilters))
		for d, vals := range f.FieldFilters {
			out.FieldFilters[d] = append([]string(nil), vals...)
		}
	}
	if f.TimeWindow != nil {
		w := *f.TimeWindow
		out.TimeWindow = &w
	}
	return out
}

// WithValueFilter returns a copy of the spec where the given dimension is
// filtered to exactly one value, clearing prior selections on that
// dimension only. This is the "filter by this value" cell action.
func (f FilterSpec) WithValueFilter(d Dimension, value string) FilterSpec {
	out := f.Clone()
	if out.FieldFilters == nil {
		out.FieldFilters = make(map[Dimension][]string, 1)
	}
	out.FieldFilters[d] = []string{value}
	return out
}

// IsZero reports whether the spec applies no restriction at all.
func (f FilterSpec) IsZero() bool {
	return f.TextSearch == "" && len(f.FieldFilters) == 0 && !f.ErrorsOnly && f.TimeWindow == nil
}

// ResultSet is an ordered view over the session collection produced by one
// evaluate call. Sessions are chronological by start time, stable by
// ingestion order for ties.
type ResultSet struct {
	Sessions []*Session `json:"sessions"`

	// Total is the number of sessions in the underlying collection, before
	// filtering.
	Total int `json:"total"`

	// Diagnostics carries non-fatal validation notes: unknown dimensions
	// that were ignored, or the reason an invalid time window produced an
	// empty result.
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// Columns are the display columns of a result row, in export order.
var Columns = []string{"Timestamp", "Type", "Server", "AP IP", "AP Name", "MAC", "User", "Result/Reason"}

// TimestampDisplay is the display layout for session and event timestamps.
const TimestampDisplay = "01/02/2006 15:04:05.000"

// Row renders the display columns for one session.
func Row(s *Session) []string {
	return []string{
		s.Start.Format(TimestampDisplay),
		s.RequestType,
		s.Server,
		s.APIP,
		s.APName,
		s.MAC,
		s.User,
		s.ResultDisplay(),
	}
}

// SortedValues returns the values sorted lexically, without mutating the
// input. Dimension value enumerations are served sorted.
func SortedValues(vals []string) []string {
	out := append([]string(nil), vals...)
	sort.Strings(out)
	return out
}
