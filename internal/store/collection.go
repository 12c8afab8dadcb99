// Package store holds the parsed collection in memory with precomputed
// inverted indices for every filterable dimension. Collections are built
// all-or-nothing and published atomically; readers always see either the
// previous complete collection or the new one, never a torn structure.
package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

// Collection is one immutable ingested log source: sessions in
// chronological order, the raw events behind them, parse diagnostics, and
// the per-dimension inverted indices.
type Collection struct {
	sessions    []*model.Session
	events      []*model.RawEvent
	parseErrors []model.ParseError
	residual    []*model.RawEvent

	// indices maps dimension -> value -> ascending session ordinals.
	indices map[model.Dimension]map[string][]int

	minTime time.Time
	maxTime time.Time
}

// Build constructs a Collection and all of its indices in one pass. The
// input session slice must already be in chronological order; Build fails
// rather than indexing an out-of-order collection.
func Build(sessions []*model.Session, events []*model.RawEvent, parseErrors []model.ParseError, residual []*model.RawEvent) (*Collection, error) {
	for i := 1; i < len(sessions); i++ {
		if sessions[i].Start.Before(sessions[i-1].Start) {
			return nil, fmt.Errorf("session %d out of chronological order", i)
		}
	}

	c := &Collection{
		sessions:    sessions,
		events:      events,
		parseErrors: parseErrors,
		residual:    residual,
		indices:     make(map[model.Dimension]map[string][]int, len(model.Dimensions)),
	}
	for _, d := range model.Dimensions {
		c.indices[d] = make(map[string][]int)
	}
	for i, s := range sessions {
		for _, d := range model.Dimensions {
			for _, v := range s.DimensionValues(d) {
				c.indices[d][v] = append(c.indices[d][v], i)
			}
		}
		if c.minTime.IsZero() || s.Start.Before(c.minTime) {
			c.minTime = s.Start
		}
		if s.End.After(c.maxTime) {
			c.maxTime = s.End
		}
	}
	return c, nil
}

// Empty returns a collection with no content but fully consistent indices.
func Empty() *Collection {
	c, _ := Build(nil, nil, nil, nil)
	return c
}

// Len returns the number of sessions.
func (c *Collection) Len() int { return len(c.sessions) }

// SessionAt returns the session at ordinal i.
func (c *Collection) SessionAt(i int) *model.Session { return c.sessions[i] }

// Sessions returns the full chronological session slice. Callers must not
// mutate it.
func (c *Collection) Sessions() []*model.Session { return c.sessions }

// Events returns the raw event sequence in ingestion order.
func (c *Collection) Events() []*model.RawEvent { return c.events }

// ParseErrors returns the parse diagnostics recorded during ingestion.
func (c *Collection) ParseErrors() []model.ParseError { return c.parseErrors }

// Residual returns events that could not be attached to any session.
func (c *Collection) Residual() []*model.RawEvent { return c.residual }

// Lookup returns the ascending session ordinals holding the given value in
// the given dimension. The returned slice is shared; callers must not
// mutate it.
func (c *Collection) Lookup(d model.Dimension, value string) []int {
	idx, ok := c.indices[d]
	if !ok {
		return nil
	}
	return idx[value]
}

// DimensionValues enumerates the distinct values present for a dimension,
// sorted, for populating filter pickers.
func (c *Collection) DimensionValues(d model.Dimension) []string {
	idx, ok := c.indices[d]
	if !ok {
		return nil
	}
	vals := make([]string, 0, len(idx))
	for v := range idx {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return vals
}

// TimeBounds returns the min start and max end timestamps of the
// collection; ok is false when the collection is empty.
func (c *Collection) TimeBounds() (min, max time.Time, ok bool) {
	if len(c.sessions) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return c.minTime, c.maxTime, true
}

// WindowCandidates returns the ordinals of sessions whose span intersects
// [from, to]. Sessions are chronological by start, so everything starting
// after the window end is pruned with a binary search; the remaining
// prefix is filtered on session end.
func (c *Collection) WindowCandidates(from, to time.Time) []int {
	cut := sort.Search(len(c.sessions), func(i int) bool {
		return c.sessions[i].Start.After(to)
	})
	var out []int
	for i := 0; i < cut; i++ {
		if !c.sessions[i].End.Before(from) {
			out = append(out, i)
		}
	}
	return out
}
