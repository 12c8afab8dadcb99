package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

func TestDimensionIsValid(t *testing.T) {
	for _, d := range Dimensions {
		assert.True(t, d.IsValid(), d)
	}
	assert.False(t, Dimension("favourite_color").IsValid())
}

func TestFilterSpecClone(t *testing.T) {
	orig := FilterSpec{
		TextSearch:   "ap",
		FieldFilters: map[Dimension][]string{DimensionUser: {"alice"}},
		TimeWindow:   &TimeWindow{Center: time.Now(), Radius: time.Minute},
	}
	clone := orig.Clone()

	clone.FieldFilters[DimensionUser][0] = "mallory"
	clone.FieldFilters[DimensionMAC] = []string{"AA"}
	clone.TimeWindow.Radius = time.Hour

	assert.Equal(t, []string{"alice"}, orig.FieldFilters[DimensionUser])
	assert.NotContains(t, orig.FieldFilters, DimensionMAC)
	assert.Equal(t, time.Minute, orig.TimeWindow.Radius)
}

// The cell action replaces the selection on its own dimension and keeps
// everything else.
func TestWithValueFilter(t *testing.T) {
	orig := FilterSpec{
		TextSearch: "east",
		FieldFilters: map[Dimension][]string{
			DimensionUser:   {"alice", "bob"},
			DimensionServer: {"NPS-1"},
		},
		ErrorsOnly: true,
	}

	derived := orig.WithValueFilter(DimensionUser, "carol")

	assert.Equal(t, []string{"carol"}, derived.FieldFilters[DimensionUser])
	assert.Equal(t, []string{"NPS-1"}, derived.FieldFilters[DimensionServer])
	assert.Equal(t, "east", derived.TextSearch)
	assert.True(t, derived.ErrorsOnly)
	// The original spec is untouched.
	assert.Equal(t, []string{"alice", "bob"}, orig.FieldFilters[DimensionUser])

	fromEmpty := FilterSpec{}.WithValueFilter(DimensionMAC, "AA")
	assert.Equal(t, []string{"AA"}, fromEmpty.FieldFilters[DimensionMAC])
}

func TestFilterSpecIsZero(t *testing.T) {
	assert.True(t, FilterSpec{}.IsZero())
	assert.False(t, FilterSpec{ErrorsOnly: true}.IsZero())
	assert.False(t, FilterSpec{TextSearch: "x"}.IsZero())
}

func reasonPtr(code int) *int { return &code }

func sampleSession() *Session {
	start := time.Date(2025, 9, 14, 8, 30, 0, 0, time.UTC)
	return &Session{
		Key:          "S1",
		Outcome:      OutcomeRejected,
		Start:        start,
		End:          start.Add(time.Second),
		User:         `CORP\jdoe`,
		MAC:          "AA-BB-CC-DD-EE-FF",
		Server:       "NPS-EAST",
		APIP:         "10.1.2.3",
		APName:       "AP-EAST-01",
		ReasonCode:   reasonPtr(16),
		RequestType:  "Access-Request",
		ResponseType: "Access-Reject",
		Events: []*RawEvent{
			{Timestamp: start, PacketType: nps.PacketAccessRequest},
			{Timestamp: start.Add(time.Second), PacketType: nps.PacketAccessReject, ReasonCode: reasonPtr(16)},
		},
	}
}

func TestResultDisplay(t *testing.T) {
	s := sampleSession()
	reason16, ok := nps.ReasonText(16)
	require.True(t, ok)
	assert.Equal(t, "Access-Reject ("+reason16+")", s.ResultDisplay())

	s.ReasonCode = nil
	assert.Equal(t, "Access-Reject", s.ResultDisplay())

	s.ResponseType = ""
	assert.Equal(t, string(OutcomeRejected), s.ResultDisplay())
}

func TestMatchesText(t *testing.T) {
	s := sampleSession()

	assert.True(t, s.MatchesText("jdoe"))
	assert.True(t, s.MatchesText("JDOE"))
	assert.True(t, s.MatchesText("ap-east"))
	assert.True(t, s.MatchesText("credentials mismatch"))
	assert.True(t, s.MatchesText("access-reject"))
	assert.True(t, s.MatchesText(""))
	assert.False(t, s.MatchesText("nobody"))
}

func TestRow(t *testing.T) {
	row := Row(sampleSession())
	require.Len(t, row, len(Columns))
	assert.Equal(t, "09/14/2025 08:30:00.000", row[0])
	assert.Equal(t, "Access-Request", row[1])
	assert.Equal(t, `CORP\jdoe`, row[6])
	assert.Contains(t, row[7], "Access-Reject (")
}

func TestSessionDimensionValues(t *testing.T) {
	s := sampleSession()
	assert.Equal(t, []string{`CORP\jdoe`}, s.DimensionValues(DimensionUser))
	assert.Equal(t, []string{"16"}, s.DimensionValues(DimensionReasonCode))
	assert.Equal(t, []string{"Access-Request", "Access-Reject"}, s.DimensionValues(DimensionPacketType))
	assert.Nil(t, s.DimensionValues(Dimension("favourite_color")))

	s.APName = ""
	assert.Nil(t, s.DimensionValues(DimensionAPName))
}

func TestIntersects(t *testing.T) {
	s := sampleSession()
	assert.True(t, s.Intersects(s.Start, s.End))
	assert.True(t, s.Intersects(s.End, s.End.Add(time.Hour)))
	assert.False(t, s.Intersects(s.End.Add(time.Millisecond), s.End.Add(time.Hour)))
	assert.False(t, s.Intersects(s.Start.Add(-time.Hour), s.Start.Add(-time.Millisecond)))
}

func TestCorrelationKeyPreference(t *testing.T) {
	ev := &RawEvent{SessionID: "S1", Class: "C1"}
	assert.Equal(t, "S1", ev.CorrelationKey())
	ev.SessionID = ""
	assert.Equal(t, "C1", ev.CorrelationKey())
	ev.Class = ""
	assert.Equal(t, "", ev.CorrelationKey())
}

func TestHasIdentity(t *testing.T) {
	assert.False(t, (&RawEvent{User: UnknownUser}).HasIdentity())
	assert.True(t, (&RawEvent{User: "jdoe"}).HasIdentity())
	assert.True(t, (&RawEvent{User: UnknownUser, MAC: "AA"}).HasIdentity())
}

func TestParseErrorError(t *testing.T) {
	perr := ParseError{SourceFile: "a.log", Line: 7, Reason: "truncated record"}
	assert.Equal(t, "a.log:7: truncated record", perr.Error())
}

func TestSortedValues(t *testing.T) {
	in := []string{"b", "a", "c"}
	assert.Equal(t, []string{"a", "b", "c"}, SortedValues(in))
	assert.Equal(t, []string{"b", "a", "c"}, in)
}
