package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

// Outcome is the derived overall result of a session.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeChallenged Outcome = "challenged"
	OutcomeIncomplete Outcome = "incomplete"
)

// IsError reports whether the outcome counts as a failure for the
// errors-only filter: anything that is not a completed accept.
func (o Outcome) IsError() bool {
	return o != OutcomeAccepted
}

// Session is a derived aggregate of RawEvents sharing a correlation key
// within a bounded time span. Sessions are immutable once built.
type Session struct {
	// Key is the correlation key the session was grouped under.
	Key string `json:"key"`
	// Synthetic is true when Key was derived from identity material rather
	// than taken from an explicit Acct-Session-Id or Class attribute.
	Synthetic bool `json:"synthetic,omitempty"`

	// Events are the members in chronological order (Seq as tiebreak).
	Events []*RawEvent `json:"events"`

	Outcome Outcome   `json:"outcome"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`

	// Primary display fields, taken from the member with the highest
	// confidence (accounting and accept events outrank access requests).
	User   string `json:"user"`
	MAC    string `json:"mac"`
	Server string `json:"server"`
	APIP   string `json:"ap_ip"`
	APName string `json:"ap_name"`

	// ReasonCode is the reason carried by the terminal response, if any.
	ReasonCode *int `json:"reason_code,omitempty"`

	// RequestType and ResponseType are the display names of the first
	// request packet and the terminal response packet.
	RequestType  string `json:"request_type,omitempty"`
	ResponseType string `json:"response_type,omitempty"`
}

// ReasonDisplay returns the mapped reason text for the session's terminal
// reason code, falling back to the raw numeric code.
func (s *Session) ReasonDisplay() string {
	if s.ReasonCode == nil {
		return ""
	}
	text, _ := nps.ReasonText(*s.ReasonCode)
	return text
}

// ResultDisplay renders the Result/Reason column: "ResponseType (reason)",
// degrading to whichever part is present.
func (s *Session) ResultDisplay() string {
	reason := s.ReasonDisplay()
	switch {
	case s.ResponseType != "" && reason != "":
		return s.ResponseType + " (" + reason + ")"
	case reason != "":
		return reason
	case s.ResponseType != "":
		return s.ResponseType
	default:
		return string(s.Outcome)
	}
}

// MatchesText reports whether the query substring appears in any display
// column of the session or its member events. Matching is case-insensitive.
func (s *Session) MatchesText(query string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, col := range []string{s.User, s.MAC, s.APIP, s.APName, s.Server, s.ReasonDisplay(), s.RequestType, s.ResponseType} {
		if strings.Contains(strings.ToLower(col), q) {
			return true
		}
	}
	for _, e := range s.Events {
		if strings.Contains(strings.ToLower(e.PacketType.String()), q) ||
			strings.Contains(strings.ToLower(e.ReasonDisplay()), q) {
			return true
		}
	}
	return false
}

// DimensionValues returns the distinct values the session exposes for a
// filterable dimension, in first-seen order. Per-event dimensions (packet
// type, reason code) collect across all members.
func (s *Session) DimensionValues(d Dimension) []string {
	switch d {
	case DimensionUser:
		return nonEmpty(s.User)
	case DimensionMAC:
		return nonEmpty(s.MAC)
	case DimensionAPIP:
		return nonEmpty(s.APIP)
	case DimensionAPName:
		return nonEmpty(s.APName)
	case DimensionServer:
		return nonEmpty(s.Server)
	case DimensionSessionID:
		return nonEmpty(s.Key)
	case DimensionReasonCode:
		var vals []string
		seen := map[string]bool{}
		for _, e := range s.Events {
			if e.ReasonCode == nil {
				continue
			}
			v := strconv.Itoa(*e.ReasonCode)
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		return vals
	case DimensionPacketType:
		var vals []string
		seen := map[string]bool{}
		for _, e := range s.Events {
			v := e.PacketType.String()
			if !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		return vals
	default:
		return nil
	}
}

// Intersects reports whether the session span [Start, End] overlaps the
// closed interval [from, to].
func (s *Session) Intersects(from, to time.Time) bool {
	return !s.Start.After(to) && !s.End.Before(from)
}

func nonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
