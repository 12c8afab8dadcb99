// Package queryengine evaluates filter specifications against the index
// store. Evaluation cost tracks the smallest candidate index involved, not
// the collection size: index lists are intersected first and only the
// survivors see the linear text-search pass.
package queryengine

import (
	"fmt"
	"sort"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/metrics"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/store"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

// Engine evaluates queries against the currently published collection.
type Engine struct {
	store *store.Store
	log   *logging.Logger
}

// New creates a query engine over the given store.
func New(st *store.Store, log *logging.Logger) *Engine {
	if log == nil {
		log = logging.Default()
	}
	return &Engine{store: st, log: log.With(logging.Component("query"))}
}

// Evaluate produces the ordered result view for a filter spec. Malformed
// parts of the spec never fail the call: an invalid time window yields an
// empty result annotated with the reason, and unknown dimensions are
// ignored with a diagnostic.
func (e *Engine) Evaluate(spec model.FilterSpec) *model.ResultSet {
	started := time.Now()
	defer func() {
		metrics.QueriesTotal.Inc()
		metrics.QueryDuration.Observe(time.Since(started).Seconds())
	}()

	snap := e.store.Snapshot()
	rs := &model.ResultSet{Total: snap.Len()}

	var lists [][]int

	if spec.TimeWindow != nil {
		window, reason := validateWindow(snap, spec.TimeWindow)
		if reason != "" {
			rs.Diagnostics = append(rs.Diagnostics, reason)
			return rs
		}
		lists = append(lists, snap.WindowCandidates(window.from, window.to))
	}

	for _, d := range model.Dimensions {
		values, ok := spec.FieldFilters[d]
		if !ok || len(values) == 0 {
			continue
		}
		// Values within one dimension compose disjunctively.
		var union []int
		for _, v := range values {
			union = mergeSorted(union, snap.Lookup(d, v))
		}
		lists = append(lists, union)
	}
	for d := range spec.FieldFilters {
		if !d.IsValid() {
			rs.Diagnostics = append(rs.Diagnostics, fmt.Sprintf("unknown filter dimension %q ignored", d))
		}
	}

	candidates := intersectAll(lists, snap.Len())

	for _, i := range candidates {
		s := snap.SessionAt(i)
		if spec.ErrorsOnly && !s.Outcome.IsError() {
			continue
		}
		if spec.TextSearch != "" && !s.MatchesText(spec.TextSearch) {
			continue
		}
		rs.Sessions = append(rs.Sessions, s)
	}
	return rs
}

// DimensionValues enumerates the known values for a dimension, sorted.
// Unknown dimensions return an error rather than a silent empty set so
// picker code fails loudly.
func (e *Engine) DimensionValues(d model.Dimension) ([]string, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("unknown dimension %q", d)
	}
	return e.store.Snapshot().DimensionValues(d), nil
}

type timeSpan struct {
	from, to time.Time
}

// validateWindow checks a time window against the loaded data. A non-empty
// reason means the window is invalid and the query must return empty.
func validateWindow(snap *store.Collection, w *model.TimeWindow) (timeSpan, string) {
	if w.Radius < 0 {
		return timeSpan{}, fmt.Sprintf("invalid time window: negative radius %s", w.Radius)
	}
	min, max, ok := snap.TimeBounds()
	if !ok {
		return timeSpan{}, "invalid time window: no data loaded"
	}
	if w.Center.Before(min) || w.Center.After(max) {
		return timeSpan{}, fmt.Sprintf("invalid time window: center %s outside loaded range [%s, %s]",
			w.Center.Format(model.TimestampDisplay), min.Format(model.TimestampDisplay), max.Format(model.TimestampDisplay))
	}
	return timeSpan{from: w.Center.Add(-w.Radius), to: w.Center.Add(w.Radius)}, ""
}

// mergeSorted merges two ascending ordinal lists, dropping duplicates.
func mergeSorted(a, b []int) []int {
	if len(a) == 0 {
		return append([]int(nil), b...)
	}
	if len(b) == 0 {
		return a
	}
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// intersectAll intersects the candidate lists, starting from the smallest
// so the work is proportional to the most selective index. With no lists
// every ordinal is a candidate.
func intersectAll(lists [][]int, n int) []int {
	if len(lists) == 0 {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })
	out := lists[0]
	for _, l := range lists[1:] {
		out = intersectSorted(out, l)
		if len(out) == 0 {
			break
		}
	}
	return out
}

// intersectSorted intersects two ascending ordinal lists.
func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
