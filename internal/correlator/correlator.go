// Package correlator reconstructs logical authentication sessions from the
// merged RawEvent sequence. Events sharing a correlation key within a
// bounded inactivity window become one session; events carrying no key
// material at all remain visible as residuals.
package correlator

import (
	"fmt"
	"sort"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

// Config carries the correlation tunables. Neither value is a protocol
// constant; both are product policy.
type Config struct {
	// InactivityGap splits a recycled correlation key: a gap between
	// consecutive events larger than this starts a new session.
	InactivityGap time.Duration
	// SyntheticBucket is the time-bucket width used when deriving a key
	// for events that lack an explicit session id.
	SyntheticBucket time.Duration
}

// DefaultConfig mirrors the config package defaults.
func DefaultConfig() Config {
	return Config{
		InactivityGap:   5 * time.Minute,
		SyntheticBucket: 30 * time.Second,
	}
}

// Result is the outcome of one correlation pass.
type Result struct {
	Sessions []*model.Session
	// Residual holds events that could not be attached to any session
	// because they carry neither an explicit key nor identity material.
	Residual []*model.RawEvent
}

// Correlator groups raw events into sessions.
type Correlator struct {
	cfg Config
	log *logging.Logger
}

// New creates a Correlator. Zero config values fall back to defaults.
func New(cfg Config, log *logging.Logger) *Correlator {
	def := DefaultConfig()
	if cfg.InactivityGap <= 0 {
		cfg.InactivityGap = def.InactivityGap
	}
	if cfg.SyntheticBucket <= 0 {
		cfg.SyntheticBucket = def.SyntheticBucket
	}
	if log == nil {
		log = logging.Default()
	}
	return &Correlator{cfg: cfg, log: log.With(logging.Component("correlator"))}
}

// open tracks a session under construction for one correlation key.
type open struct {
	events    []*model.RawEvent
	synthetic bool
	key       string
	last      time.Time
}

// Correlate builds the session collection from the event sequence. The
// input is not mutated; member order within sessions is chronological with
// arrival order as the tiebreak, so clock skew never raises an error.
func (c *Correlator) Correlate(events []*model.RawEvent) *Result {
	ordered := make([]*model.RawEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	res := &Result{}
	opens := make(map[string]*open)

	for _, ev := range ordered {
		key := ev.CorrelationKey()
		synthetic := false
		if key == "" {
			if !ev.HasIdentity() {
				res.Residual = append(res.Residual, ev)
				continue
			}
			key = c.syntheticKey(ev)
			synthetic = true
		}

		o := opens[key]
		if o != nil && ev.Timestamp.Sub(o.last) > c.cfg.InactivityGap {
			// Recycled key: close the stale session before reusing it.
			res.Sessions = append(res.Sessions, buildSession(o))
			o = nil
		}
		if o == nil {
			o = &open{key: key, synthetic: synthetic}
			opens[key] = o
		}
		o.events = append(o.events, ev)
		o.last = ev.Timestamp
	}

	for _, o := range opens {
		res.Sessions = append(res.Sessions, buildSession(o))
	}
	sort.SliceStable(res.Sessions, func(i, j int) bool {
		a, b := res.Sessions[i], res.Sessions[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.Events[0].Seq < b.Events[0].Seq
	})
	return res
}

// syntheticKey derives a grouping key from identity, MAC, and server within
// a short time bucket, for logs that never carry an explicit session id.
func (c *Correlator) syntheticKey(ev *model.RawEvent) string {
	bucket := ev.Timestamp.Truncate(c.cfg.SyntheticBucket).Unix()
	user := ev.User
	if user == model.UnknownUser {
		user = ""
	}
	return fmt.Sprintf("~%s|%s|%s|%d", user, ev.MAC, ev.Server, bucket)
}

// identityRank orders packet types by how trustworthy their identity
// fields are: accounting and accept records outrank access requests.
func identityRank(pt nps.PacketType) int {
	switch pt {
	case nps.PacketAccountingRequest, nps.PacketAccessAccept:
		return 2
	default:
		return 1
	}
}

// buildSession finalizes one open session: derives outcome, span, and the
// primary display fields.
func buildSession(o *open) *model.Session {
	s := &model.Session{
		Key:       o.key,
		Synthetic: o.synthetic,
		Events:    o.events,
		Start:     o.events[0].Timestamp,
		End:       o.events[len(o.events)-1].Timestamp,
	}

	terminal := o.events[len(o.events)-1]
	switch terminal.PacketType {
	case nps.PacketAccessAccept:
		s.Outcome = model.OutcomeAccepted
	case nps.PacketAccessReject:
		s.Outcome = model.OutcomeRejected
	case nps.PacketAccessChallenge:
		s.Outcome = model.OutcomeChallenged
	default:
		s.Outcome = model.OutcomeIncomplete
	}

	userRank, macRank := 0, 0
	for _, ev := range o.events {
		rank := identityRank(ev.PacketType)
		if ev.User != "" && ev.User != model.UnknownUser && rank > userRank {
			s.User = ev.User
			userRank = rank
		}
		if ev.MAC != "" && rank > macRank {
			s.MAC = ev.MAC
			macRank = rank
		}
		if ev.Server != "" && s.Server == "" {
			s.Server = ev.Server
		}
		if ev.APIP != "" && s.APIP == "" {
			s.APIP = ev.APIP
		}
		if ev.APName != "" && s.APName == "" {
			s.APName = ev.APName
		}
		if ev.PacketType.IsRequest() && s.RequestType == "" {
			s.RequestType = ev.PacketType.String()
		}
		if ev.PacketType.IsResponse() {
			s.ResponseType = ev.PacketType.String()
		}
		if ev.ReasonCode != nil {
			s.ReasonCode = ev.ReasonCode
		}
	}
	if s.User == "" {
		s.User = model.UnknownUser
	}
	return s
}
