// Package model defines the data types shared by the parser, correlator,
// index store, and query engine: raw log events, derived sessions, and the
// canonical filter/result structures consumed by presentation layers.
package model

import (
	"strconv"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

// UnknownUser is the display identity assigned to events whose log record
// carries neither a SAM-Account-Name nor a User-Name attribute. Such events
// are tagged, never dropped.
const UnknownUser = "- UNKNOWN -"

// Attr is one log attribute that was not promoted to a typed field.
// Attributes keep their original order within the record.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawEvent is one parsed log record.
type RawEvent struct {
	// Seq is the position of the event in the merged ingestion order and
	// serves as the tiebreak when timestamps collide or run backwards.
	Seq int `json:"seq"`

	Timestamp  time.Time      `json:"timestamp"`
	PacketType nps.PacketType `json:"packet_type"`

	// Server is the NPS computer that logged the record (Computer-Name).
	Server string `json:"server"`
	// APIP and APName identify the network access server: Client-IP-Address
	// and Client-Friendly-Name, falling back to NAS-Identifier.
	APIP   string `json:"ap_ip"`
	APName string `json:"ap_name"`
	// MAC is the Calling-Station-Id of the supplicant.
	MAC string `json:"mac"`
	// User is SAM-Account-Name when present, otherwise User-Name, otherwise
	// UnknownUser.
	User string `json:"user"`

	// ReasonCode is nil when the record carries no Reason-Code attribute.
	ReasonCode *int `json:"reason_code,omitempty"`

	// SessionID is the Acct-Session-Id attribute; Class is the NPS Class
	// attribute. Either can serve as the explicit correlation key.
	SessionID string `json:"session_id,omitempty"`
	Class     string `json:"class,omitempty"`

	SourceFile string `json:"source_file"`
	Line       int    `json:"line"`

	// Attrs holds attributes that were not promoted to typed fields.
	Attrs []Attr `json:"attrs,omitempty"`
}

// CorrelationKey returns the explicit correlation key for the event:
// Acct-Session-Id when present, otherwise the NPS Class attribute, otherwise
// the empty string (a synthetic key must then be derived).
func (e *RawEvent) CorrelationKey() string {
	if e.SessionID != "" {
		return e.SessionID
	}
	return e.Class
}

// HasIdentity reports whether the event carries any identity material a
// synthetic correlation key could be built from.
func (e *RawEvent) HasIdentity() bool {
	return (e.User != "" && e.User != UnknownUser) || e.MAC != ""
}

// ReasonDisplay returns the mapped NPS reason text for the event, or the raw
// numeric code when the lookup table has no entry, or "" without a code.
func (e *RawEvent) ReasonDisplay() string {
	if e.ReasonCode == nil {
		return ""
	}
	text, _ := nps.ReasonText(*e.ReasonCode)
	return text
}

// ParseError records one log record that failed structural parsing. The
// offending input is preserved so diagnostics can be surfaced verbatim.
type ParseError struct {
	SourceFile string `json:"source_file"`
	Line       int    `json:"line"`
	Offset     int64  `json:"offset"`
	Reason     string `json:"reason"`
	Raw        string `json:"raw,omitempty"`
}

func (p ParseError) Error() string {
	return p.SourceFile + ":" + strconv.Itoa(p.Line) + ": " + p.Reason
}
