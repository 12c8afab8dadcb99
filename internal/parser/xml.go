package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

const (
	eventOpen  = "<Event"
	eventClose = "</Event>"
)

// timestampLayouts are the formats NPS emits, most common first.
var timestampLayouts = []string{
	"01/02/2006 15:04:05.000",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a timestamp in any of the layouts NPS emits.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// isEventOpen reports whether data[pos:] starts an <Event> element rather
// than an element whose name merely begins with "Event".
func isEventOpen(data []byte, pos int) bool {
	rest := data[pos+len(eventOpen):]
	if len(rest) == 0 {
		return true // truncated at EOF, still counts as a record boundary
	}
	switch rest[0] {
	case '>', ' ', '\t', '\r', '\n', '/':
		return true
	}
	return false
}

// parseXMLChunk scans one chunk for <Event> records and decodes each. A
// record that cannot be decoded becomes a ParseError; scanning resumes at
// the next record boundary. The cancellation flag is checked per record.
func parseXMLChunk(ctx context.Context, ch chunk, source string) chunkResult {
	var res chunkResult
	data := ch.data
	pos := 0
	for {
		if res.records%cancelCheckInterval == 0 && ctx.Err() != nil {
			return res
		}
		idx := nextEventOpen(data, pos)
		if idx < 0 {
			break
		}
		line := ch.line + bytes.Count(data[:idx], []byte{'\n'})
		offset := ch.offset + int64(idx)

		next := nextEventOpen(data, idx+len(eventOpen))
		end := bytes.Index(data[idx:], []byte(eventClose))
		var endAbs int
		if end >= 0 {
			endAbs = idx + end + len(eventClose)
		}

		if end < 0 || (next >= 0 && next < endAbs) {
			// Truncated record: no closing tag before the next record or EOF.
			stop := len(data)
			if next >= 0 {
				stop = next
			}
			res.records++
			res.errors = append(res.errors, model.ParseError{
				SourceFile: source,
				Line:       line,
				Offset:     offset,
				Reason:     "truncated record: missing </Event>",
				Raw:        clip(string(data[idx:stop])),
			})
			pos = stop
			continue
		}

		res.records++
		ev, perr := decodeXMLEvent(data[idx:endAbs])
		if perr != "" {
			res.errors = append(res.errors, model.ParseError{
				SourceFile: source,
				Line:       line,
				Offset:     offset,
				Reason:     perr,
				Raw:        clip(string(data[idx:endAbs])),
			})
		} else {
			ev.SourceFile = source
			ev.Line = line
			res.events = append(res.events, ev)
		}
		pos = endAbs
	}
	return res
}

func nextEventOpen(data []byte, from int) int {
	for from < len(data) {
		idx := bytes.Index(data[from:], []byte(eventOpen))
		if idx < 0 {
			return -1
		}
		abs := from + idx
		if isEventOpen(data, abs) {
			return abs
		}
		from = abs + len(eventOpen)
	}
	return -1
}

// decodeXMLEvent decodes one <Event>...</Event> record. The reason string
// is empty on success; a non-empty reason marks the record malformed.
func decodeXMLEvent(record []byte) (*model.RawEvent, string) {
	dec := xml.NewDecoder(bytes.NewReader(record))

	var (
		ev            model.RawEvent
		timestampRaw  string
		packetTypeRaw string
		friendlyName  string
		nasIdentifier string
		samAccount    string
		userName      string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Sprintf("invalid XML: %v", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "Event" {
			continue
		}
		var val string
		if err := dec.DecodeElement(&val, &start); err != nil {
			return nil, fmt.Sprintf("invalid element <%s>: %v", start.Name.Local, err)
		}
		switch start.Name.Local {
		case "Timestamp":
			timestampRaw = val
		case "Packet-Type":
			packetTypeRaw = val
		case "Class":
			ev.Class = val
		case "Acct-Session-Id":
			ev.SessionID = val
		case "Computer-Name":
			ev.Server = val
		case "Client-IP-Address":
			ev.APIP = val
		case "NAS-Identifier":
			nasIdentifier = val
		case "Client-Friendly-Name":
			friendlyName = val
		case "Calling-Station-Id":
			ev.MAC = val
		case "User-Name":
			userName = val
		case "SAM-Account-Name":
			samAccount = val
		case "Reason-Code":
			if code, err := strconv.Atoi(val); err == nil {
				ev.ReasonCode = &code
			} else {
				ev.Attrs = append(ev.Attrs, model.Attr{Name: start.Name.Local, Value: val})
			}
		default:
			ev.Attrs = append(ev.Attrs, model.Attr{Name: start.Name.Local, Value: val})
		}
	}

	if timestampRaw == "" {
		return nil, "missing mandatory field Timestamp"
	}
	ts, err := ParseTimestamp(timestampRaw)
	if err != nil {
		return nil, err.Error()
	}
	ev.Timestamp = ts

	if packetTypeRaw == "" {
		return nil, "missing mandatory field Packet-Type"
	}
	pt, ok := nps.ParsePacketType(packetTypeRaw)
	if !ok {
		return nil, fmt.Sprintf("non-numeric Packet-Type %q", packetTypeRaw)
	}
	ev.PacketType = pt

	// NAS display name prefers the administrator-assigned friendly name.
	if friendlyName != "" {
		ev.APName = friendlyName
	} else {
		ev.APName = nasIdentifier
	}
	switch {
	case samAccount != "":
		ev.User = samAccount
	case userName != "":
		ev.User = userName
	default:
		ev.User = model.UnknownUser
	}
	return &ev, ""
}

// clip bounds raw diagnostics to a readable length.
func clip(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
