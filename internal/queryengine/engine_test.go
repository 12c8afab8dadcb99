package queryengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/store"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

var t0 = time.Date(2025, 9, 14, 8, 0, 0, 0, time.UTC)

type fixtureSession struct {
	start   time.Duration
	user    string
	mac     string
	apName  string
	server  string
	outcome model.Outcome
	reason  *int
}

func reasonPtr(code int) *int { return &code }

// fixture builds a five-session collection: two accepts, two rejects, one
// incomplete.
func fixture(t *testing.T) *Engine {
	t.Helper()
	specs := []fixtureSession{
		{0, "alice", "AA-AA", "AP-EAST-01", "NPS-1", model.OutcomeAccepted, nil},
		{5 * time.Minute, "bob", "BB-BB", "AP-EAST-01", "NPS-1", model.OutcomeRejected, reasonPtr(16)},
		{10 * time.Minute, "alice", "AA-AA", "AP-WEST-01", "NPS-2", model.OutcomeAccepted, nil},
		{15 * time.Minute, "carol", "CC-CC", "AP-WEST-01", "NPS-2", model.OutcomeRejected, reasonPtr(22)},
		{20 * time.Minute, "bob", "BB-BB", "AP-EAST-01", "NPS-1", model.OutcomeIncomplete, nil},
	}

	var sessions []*model.Session
	for i, fs := range specs {
		at := t0.Add(fs.start)
		resp := ""
		switch fs.outcome {
		case model.OutcomeAccepted:
			resp = nps.PacketAccessAccept.String()
		case model.OutcomeRejected:
			resp = nps.PacketAccessReject.String()
		}
		sessions = append(sessions, &model.Session{
			Key:          fs.user[:1] + string(rune('0'+i)),
			Outcome:      fs.outcome,
			Start:        at,
			End:          at.Add(2 * time.Second),
			User:         fs.user,
			MAC:          fs.mac,
			APName:       fs.apName,
			Server:       fs.server,
			ReasonCode:   fs.reason,
			RequestType:  nps.PacketAccessRequest.String(),
			ResponseType: resp,
			Events: []*model.RawEvent{
				{Timestamp: at, PacketType: nps.PacketAccessRequest, ReasonCode: fs.reason},
			},
		})
	}

	coll, err := store.Build(sessions, nil, nil, nil)
	require.NoError(t, err)
	st := store.New()
	st.Publish(coll)
	return New(st, nil)
}

func users(rs *model.ResultSet) []string {
	var out []string
	for _, s := range rs.Sessions {
		out = append(out, s.User)
	}
	return out
}

func TestEvaluate_NoFiltersReturnsEverything(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{})
	assert.Len(t, rs.Sessions, 5)
	assert.Equal(t, 5, rs.Total)
	assert.Empty(t, rs.Diagnostics)
}

func TestEvaluate_SingleDimension(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{model.DimensionUser: {"alice"}},
	})
	assert.Equal(t, []string{"alice", "alice"}, users(rs))
	assert.Equal(t, 5, rs.Total)
}

// Filters on different dimensions must all hold; values within one
// dimension are alternatives.
func TestEvaluate_ConjunctionAcrossDisjunctionWithin(t *testing.T) {
	e := fixture(t)

	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{
			model.DimensionUser:   {"alice", "bob"},
			model.DimensionServer: {"NPS-1"},
		},
	})
	// alice@NPS-2 drops out, both bob sessions and alice@NPS-1 stay.
	assert.Equal(t, []string{"alice", "bob", "bob"}, users(rs))
}

func TestEvaluate_ErrorsOnly(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{ErrorsOnly: true})
	// Two rejects plus the incomplete session.
	require.Len(t, rs.Sessions, 3)
	for _, s := range rs.Sessions {
		assert.True(t, s.Outcome.IsError())
	}
}

func TestEvaluate_TextSearchCaseInsensitive(t *testing.T) {
	e := fixture(t)

	rs := e.Evaluate(model.FilterSpec{TextSearch: "ap-west"})
	assert.Equal(t, []string{"alice", "carol"}, users(rs))

	rs = e.Evaluate(model.FilterSpec{TextSearch: "no such thing"})
	assert.Empty(t, rs.Sessions)
}

func TestEvaluate_TextSearchComposesWithFilters(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{model.DimensionUser: {"alice"}},
		TextSearch:   "AP-WEST",
	})
	require.Len(t, rs.Sessions, 1)
	assert.Equal(t, "NPS-2", rs.Sessions[0].Server)
}

func TestEvaluate_ReasonCodeDimension(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{model.DimensionReasonCode: {"16"}},
	})
	assert.Equal(t, []string{"bob"}, users(rs))
}

func TestEvaluate_TimeWindow(t *testing.T) {
	e := fixture(t)

	rs := e.Evaluate(model.FilterSpec{
		TimeWindow: &model.TimeWindow{Center: t0.Add(5 * time.Minute), Radius: time.Minute},
	})
	assert.Equal(t, []string{"bob"}, users(rs))

	// Radius zero selects only sessions spanning the exact instant.
	rs = e.Evaluate(model.FilterSpec{
		TimeWindow: &model.TimeWindow{Center: t0.Add(5*time.Minute + time.Second), Radius: 0},
	})
	assert.Equal(t, []string{"bob"}, users(rs))
	assert.Empty(t, rs.Diagnostics)
}

// Malformed windows must not fail the query: empty result, reason attached.
func TestEvaluate_InvalidTimeWindow(t *testing.T) {
	e := fixture(t)

	tests := []struct {
		name   string
		window model.TimeWindow
	}{
		{"center before data", model.TimeWindow{Center: t0.Add(-time.Hour), Radius: time.Minute}},
		{"center after data", model.TimeWindow{Center: t0.Add(time.Hour), Radius: time.Minute}},
		{"negative radius", model.TimeWindow{Center: t0, Radius: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := e.Evaluate(model.FilterSpec{TimeWindow: &tt.window})
			assert.Empty(t, rs.Sessions)
			require.Len(t, rs.Diagnostics, 1)
			assert.Contains(t, rs.Diagnostics[0], "invalid time window")
		})
	}
}

func TestEvaluate_WindowOnEmptyCollection(t *testing.T) {
	e := New(store.New(), nil)
	rs := e.Evaluate(model.FilterSpec{
		TimeWindow: &model.TimeWindow{Center: t0, Radius: time.Minute},
	})
	assert.Empty(t, rs.Sessions)
	require.Len(t, rs.Diagnostics, 1)
	assert.Contains(t, rs.Diagnostics[0], "no data loaded")
}

func TestEvaluate_UnknownDimensionIgnoredWithDiagnostic(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{
			model.DimensionUser: {"alice"},
			"favourite_color":   {"green"},
		},
	})
	assert.Equal(t, []string{"alice", "alice"}, users(rs))
	require.Len(t, rs.Diagnostics, 1)
	assert.Contains(t, rs.Diagnostics[0], "favourite_color")
}

func TestEvaluate_UnknownValueMatchesNothing(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{model.DimensionUser: {"nobody"}},
	})
	assert.Empty(t, rs.Sessions)
	assert.Empty(t, rs.Diagnostics)
}

// Evaluating the same spec twice must give identical results: evaluation
// never mutates the collection.
func TestEvaluate_Idempotent(t *testing.T) {
	e := fixture(t)
	spec := model.FilterSpec{
		FieldFilters: map[model.Dimension][]string{model.DimensionServer: {"NPS-1"}},
		ErrorsOnly:   true,
	}
	first := e.Evaluate(spec)
	second := e.Evaluate(spec)
	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, first.Total, second.Total)
}

func TestEvaluate_ResultsChronological(t *testing.T) {
	e := fixture(t)
	rs := e.Evaluate(model.FilterSpec{})
	for i := 1; i < len(rs.Sessions); i++ {
		assert.False(t, rs.Sessions[i].Start.Before(rs.Sessions[i-1].Start))
	}
}

func TestDimensionValues(t *testing.T) {
	e := fixture(t)

	vals, err := e.DimensionValues(model.DimensionUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, vals)

	_, err = e.DimensionValues("favourite_color")
	assert.Error(t, err)
}

func TestMergeAndIntersect(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 5}, mergeSorted([]int{1, 3, 5}, []int{2, 3}))
	assert.Equal(t, []int{2}, intersectSorted([]int{1, 2, 5}, []int{2, 3}))
	assert.Empty(t, intersectSorted([]int{1}, []int{2}))
	assert.Equal(t, []int{0, 1, 2}, intersectAll(nil, 3))
	assert.Empty(t, intersectAll([][]int{{1, 2}, nil}, 3))
}
