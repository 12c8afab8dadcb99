package parser

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

// iasAttrNames maps the numeric attribute IDs of the legacy IAS format to
// their RADIUS/IAS attribute names. Unknown IDs are kept under their
// numeric name in the attribute bag rather than discarded.
var iasAttrNames = map[string]string{
	"4":    "NAS-IP-Address",
	"5":    "NAS-Port",
	"6":    "Service-Type",
	"7":    "Framed-Protocol",
	"8":    "Framed-IP-Address",
	"25":   "Class",
	"30":   "Called-Station-Id",
	"31":   "Calling-Station-Id",
	"32":   "NAS-Identifier",
	"40":   "Acct-Status-Type",
	"44":   "Acct-Session-Id",
	"61":   "NAS-Port-Type",
	"4108": "Client-IP-Address",
	"4116": "NAS-Manufacturer",
	"4127": "Authentication-Type",
	"4128": "Client-Friendly-Name",
	"4129": "SAM-Account-Name",
	"4130": "Fully-Qualified-User-Name",
	"4136": "Packet-Type",
	"4142": "Reason-Code",
}

// parseIASChunk parses one chunk of a legacy comma-delimited IAS log. Each
// non-empty line is one record.
func parseIASChunk(ctx context.Context, ch chunk, source string) chunkResult {
	var res chunkResult
	data := ch.data
	line := ch.line
	offset := ch.offset
	for len(data) > 0 {
		if res.records%cancelCheckInterval == 0 && ctx.Err() != nil {
			return res
		}
		raw := data
		nl := bytes.IndexByte(data, '\n')
		if nl >= 0 {
			raw = data[:nl]
			data = data[nl+1:]
		} else {
			data = nil
		}
		trimmed := bytes.TrimRight(raw, "\r")
		if len(bytes.TrimSpace(trimmed)) > 0 {
			res.records++
			ev, reason := decodeIASLine(string(trimmed))
			if reason != "" {
				res.errors = append(res.errors, model.ParseError{
					SourceFile: source,
					Line:       line,
					Offset:     offset,
					Reason:     reason,
					Raw:        clip(string(trimmed)),
				})
			} else {
				ev.SourceFile = source
				ev.Line = line
				res.events = append(res.events, ev)
			}
		}
		offset += int64(len(raw)) + 1
		line++
	}
	return res
}

// decodeIASLine parses one legacy IAS record. The line layout is six header
// fields (NAS-IP, user, date, time, service, computer) followed by
// attribute-id/value pairs.
func decodeIASLine(line string) (*model.RawEvent, string) {
	fields, err := splitQuoted(line)
	if err != nil {
		return nil, err.Error()
	}
	if len(fields) < 6 {
		return nil, fmt.Sprintf("short record: %d of 6 header fields", len(fields))
	}

	var ev model.RawEvent
	ev.APIP = fields[0]
	userName := fields[1]
	ts, terr := ParseTimestamp(fields[2] + " " + fields[3])
	if terr != nil {
		return nil, terr.Error()
	}
	ev.Timestamp = ts
	ev.Server = fields[5]

	var (
		packetTypeRaw string
		friendlyName  string
		nasIdentifier string
		samAccount    string
	)
	for i := 6; i+1 < len(fields); i += 2 {
		id, val := fields[i], fields[i+1]
		name, known := iasAttrNames[id]
		if !known {
			ev.Attrs = append(ev.Attrs, model.Attr{Name: id, Value: val})
			continue
		}
		switch name {
		case "Packet-Type":
			packetTypeRaw = val
		case "Class":
			ev.Class = val
		case "Acct-Session-Id":
			ev.SessionID = val
		case "Calling-Station-Id":
			ev.MAC = val
		case "Client-IP-Address":
			ev.APIP = val
		case "Client-Friendly-Name":
			friendlyName = val
		case "NAS-Identifier":
			nasIdentifier = val
		case "SAM-Account-Name":
			samAccount = val
		case "Reason-Code":
			if code, cerr := strconv.Atoi(val); cerr == nil {
				ev.ReasonCode = &code
			} else {
				ev.Attrs = append(ev.Attrs, model.Attr{Name: name, Value: val})
			}
		default:
			ev.Attrs = append(ev.Attrs, model.Attr{Name: name, Value: val})
		}
	}

	if packetTypeRaw == "" {
		return nil, "missing mandatory attribute Packet-Type (4136)"
	}
	pt, ok := nps.ParsePacketType(packetTypeRaw)
	if !ok {
		return nil, fmt.Sprintf("non-numeric Packet-Type %q", packetTypeRaw)
	}
	ev.PacketType = pt

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

// splitQuoted splits one comma-delimited record, honoring double-quoted
// fields with doubled-quote escapes.
func splitQuoted(line string) ([]string, error) {
	var (
		fields []string
		cur    []byte
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quoted && c == '"' && i+1 < len(line) && line[i+1] == '"':
			cur = append(cur, '"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, string(cur))
			cur = cur[:0]
		default:
			cur = append(cur, c)
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	fields = append(fields, string(cur))
	return fields, nil
}
