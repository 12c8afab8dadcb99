package correlator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

var t0 = time.Date(2025, 9, 14, 8, 30, 0, 0, time.UTC)

type evOpt func(*model.RawEvent)

func withUser(u string) evOpt   { return func(e *model.RawEvent) { e.User = u } }
func withMAC(m string) evOpt    { return func(e *model.RawEvent) { e.MAC = m } }
func withServer(s string) evOpt { return func(e *model.RawEvent) { e.Server = s } }
func withSessionID(id string) evOpt {
	return func(e *model.RawEvent) { e.SessionID = id }
}
func withClass(c string) evOpt { return func(e *model.RawEvent) { e.Class = c } }
func withReason(code int) evOpt {
	return func(e *model.RawEvent) { e.ReasonCode = &code }
}

func ev(seq int, at time.Duration, pt nps.PacketType, opts ...evOpt) *model.RawEvent {
	e := &model.RawEvent{
		Seq:        seq,
		Timestamp:  t0.Add(at),
		PacketType: pt,
		User:       model.UnknownUser,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func TestCorrelate_ExplicitKeyPairsRequestWithAccept(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe"), withMAC("AA-BB"), withServer("NPS-1")),
		ev(1, time.Second, nps.PacketAccessAccept, withSessionID("S1"), withServer("NPS-1")),
	})

	require.Len(t, res.Sessions, 1)
	require.Empty(t, res.Residual)

	s := res.Sessions[0]
	assert.Equal(t, "S1", s.Key)
	assert.False(t, s.Synthetic)
	assert.Len(t, s.Events, 2)
	assert.Equal(t, model.OutcomeAccepted, s.Outcome)
	assert.False(t, s.Outcome.IsError())
	assert.Equal(t, "jdoe", s.User)
	assert.Equal(t, "Access-Request", s.RequestType)
	assert.Equal(t, "Access-Accept", s.ResponseType)
	assert.Equal(t, t0, s.Start)
	assert.Equal(t, t0.Add(time.Second), s.End)
}

func TestCorrelate_ClassFallsBackAsKey(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccessRequest, withClass("C1"), withUser("jdoe")),
		ev(1, time.Second, nps.PacketAccessReject, withClass("C1"), withReason(16)),
	})

	require.Len(t, res.Sessions, 1)
	assert.Equal(t, "C1", res.Sessions[0].Key)
	assert.Equal(t, model.OutcomeRejected, res.Sessions[0].Outcome)
}

// A lone reject with identity but no session id must still become a
// queryable session, not vanish.
func TestCorrelate_LoneRejectFormsSyntheticSession(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccessReject, withUser("mallory"), withMAC("AA-BB"), withReason(16)),
	})

	require.Len(t, res.Sessions, 1)
	require.Empty(t, res.Residual)

	s := res.Sessions[0]
	assert.True(t, s.Synthetic)
	assert.Equal(t, model.OutcomeRejected, s.Outcome)
	assert.True(t, s.Outcome.IsError())
	require.NotNil(t, s.ReasonCode)
	assert.Equal(t, 16, *s.ReasonCode)
}

func TestCorrelate_SyntheticKeyGroupsWithinBucket(t *testing.T) {
	c := New(Config{InactivityGap: 5 * time.Minute, SyntheticBucket: 30 * time.Second}, nil)

	res := c.Correlate([]*model.RawEvent{
		// Same user+MAC in one 30s bucket: one session.
		ev(0, 0, nps.PacketAccessRequest, withUser("jdoe"), withMAC("AA-BB")),
		ev(1, 5*time.Second, nps.PacketAccessAccept, withUser("jdoe"), withMAC("AA-BB")),
		// Different user in the same bucket: separate session.
		ev(2, 10*time.Second, nps.PacketAccessRequest, withUser("alice"), withMAC("CC-DD")),
	})

	require.Len(t, res.Sessions, 2)
	assert.Len(t, res.Sessions[0].Events, 2)
	assert.Equal(t, "jdoe", res.Sessions[0].User)
	assert.Equal(t, "alice", res.Sessions[1].User)
}

func TestCorrelate_EventsWithoutKeyMaterialStayResidual(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketStatusServer),
	})

	assert.Empty(t, res.Sessions)
	require.Len(t, res.Residual, 1)
	assert.Equal(t, 0, res.Residual[0].Seq)
}

func TestCorrelate_InactivityGapSplitsRecycledKey(t *testing.T) {
	c := New(Config{InactivityGap: 5 * time.Minute, SyntheticBucket: 30 * time.Second}, nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe")),
		ev(1, time.Second, nps.PacketAccessAccept, withSessionID("S1")),
		// Same key again an hour later: a new session.
		ev(2, time.Hour, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe")),
		ev(3, time.Hour+time.Second, nps.PacketAccessReject, withSessionID("S1"), withReason(16)),
	})

	require.Len(t, res.Sessions, 2)
	assert.Equal(t, model.OutcomeAccepted, res.Sessions[0].Outcome)
	assert.Equal(t, model.OutcomeRejected, res.Sessions[1].Outcome)
	assert.True(t, res.Sessions[0].End.Before(res.Sessions[1].Start))
}

func TestCorrelate_OutcomeFromTerminalEvent(t *testing.T) {
	tests := []struct {
		name     string
		terminal nps.PacketType
		want     model.Outcome
		isError  bool
	}{
		{"accept", nps.PacketAccessAccept, model.OutcomeAccepted, false},
		{"reject", nps.PacketAccessReject, model.OutcomeRejected, true},
		{"challenge", nps.PacketAccessChallenge, model.OutcomeChallenged, true},
		{"request only", nps.PacketAccessRequest, model.OutcomeIncomplete, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(DefaultConfig(), nil)
			res := c.Correlate([]*model.RawEvent{
				ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe")),
				ev(1, time.Second, tt.terminal, withSessionID("S1")),
			})
			require.Len(t, res.Sessions, 1)
			assert.Equal(t, tt.want, res.Sessions[0].Outcome)
			assert.Equal(t, tt.isError, res.Sessions[0].Outcome.IsError())
		})
	}
}

func TestCorrelate_AccountingOnlyIsIncomplete(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccountingRequest, withSessionID("S1"), withUser("jdoe")),
	})

	require.Len(t, res.Sessions, 1)
	assert.Equal(t, model.OutcomeIncomplete, res.Sessions[0].Outcome)
}

// Identity from accounting and accept records outranks the identity an
// access request carried.
func TestCorrelate_HigherRankIdentityWins(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("host/laptop01"), withMAC("aa-bb")),
		ev(1, time.Second, nps.PacketAccessAccept, withSessionID("S1"), withUser(`CORP\jdoe`), withMAC("AA-BB")),
	})

	require.Len(t, res.Sessions, 1)
	assert.Equal(t, `CORP\jdoe`, res.Sessions[0].User)
	assert.Equal(t, "AA-BB", res.Sessions[0].MAC)
}

// Out-of-order and equal timestamps must never break correlation; the
// sequence number is the tiebreak.
func TestCorrelate_ToleratesClockSkew(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(2, 2*time.Second, nps.PacketAccessAccept, withSessionID("S1")),
		ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe")),
		ev(1, 0, nps.PacketAccessRequest, withSessionID("S1")),
	})

	require.Len(t, res.Sessions, 1)
	s := res.Sessions[0]
	require.Len(t, s.Events, 3)
	assert.Equal(t, 0, s.Events[0].Seq)
	assert.Equal(t, 1, s.Events[1].Seq)
	assert.Equal(t, 2, s.Events[2].Seq)
	assert.Equal(t, model.OutcomeAccepted, s.Outcome)
}

func TestCorrelate_SessionsChronological(t *testing.T) {
	c := New(DefaultConfig(), nil)

	res := c.Correlate([]*model.RawEvent{
		ev(0, 10*time.Minute, nps.PacketAccessRequest, withSessionID("B"), withUser("bob")),
		ev(1, 0, nps.PacketAccessRequest, withSessionID("A"), withUser("alice")),
		ev(2, 20*time.Minute, nps.PacketAccessRequest, withSessionID("C"), withUser("carol")),
	})

	require.Len(t, res.Sessions, 3)
	for i := 1; i < len(res.Sessions); i++ {
		assert.False(t, res.Sessions[i].Start.Before(res.Sessions[i-1].Start))
	}
}

func TestCorrelate_InputNotMutated(t *testing.T) {
	c := New(DefaultConfig(), nil)
	events := []*model.RawEvent{
		ev(1, time.Second, nps.PacketAccessAccept, withSessionID("S1")),
		ev(0, 0, nps.PacketAccessRequest, withSessionID("S1"), withUser("jdoe")),
	}

	_ = c.Correlate(events)

	assert.Equal(t, 1, events[0].Seq)
	assert.Equal(t, 0, events[1].Seq)
}

func TestCorrelate_Empty(t *testing.T) {
	res := New(DefaultConfig(), nil).Correlate(nil)
	assert.Empty(t, res.Sessions)
	assert.Empty(t, res.Residual)
}
