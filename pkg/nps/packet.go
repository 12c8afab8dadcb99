// Package nps provides the RADIUS packet-type and NPS reason-code lookup
// tables used to turn numeric log fields into display text. Both tables
// tolerate unknown codes by falling back to the raw numeric form, so the
// engine keeps working against logs produced by newer NPS builds.
package nps

import "strconv"

// PacketType is a RADIUS packet type code as logged in the Packet-Type
// attribute. Unknown codes are carried verbatim rather than rejected.
type PacketType int

const (
	PacketUnknown            PacketType = 0
	PacketAccessRequest      PacketType = 1
	PacketAccessAccept       PacketType = 2
	PacketAccessReject       PacketType = 3
	PacketAccountingRequest  PacketType = 4
	PacketAccountingResponse PacketType = 5
	PacketAccessChallenge    PacketType = 11
	PacketStatusServer       PacketType = 12
	PacketStatusClient       PacketType = 13
	PacketReserved           PacketType = 255
)

var packetNames = map[PacketType]string{
	PacketAccessRequest:      "Access-Request",
	PacketAccessAccept:       "Access-Accept",
	PacketAccessReject:       "Access-Reject",
	PacketAccountingRequest:  "Accounting-Request",
	PacketAccountingResponse: "Accounting-Response",
	PacketAccessChallenge:    "Access-Challenge",
	PacketStatusServer:       "Status-Server",
	PacketStatusClient:       "Status-Client",
	PacketReserved:           "Reserved",
}

// String returns the display name for the packet type, or the raw numeric
// code when the type is not in the table.
func (p PacketType) String() string {
	if name, ok := packetNames[p]; ok {
		return name
	}
	return strconv.Itoa(int(p))
}

// Known reports whether the packet type maps to a display name.
func (p PacketType) Known() bool {
	_, ok := packetNames[p]
	return ok
}

// IsRequest reports whether the packet type originates from the access
// client side of the exchange (Access-Request or Accounting-Request).
func (p PacketType) IsRequest() bool {
	return p == PacketAccessRequest || p == PacketAccountingRequest
}

// IsResponse reports whether the packet type is a server response.
func (p PacketType) IsResponse() bool {
	switch p {
	case PacketAccessAccept, PacketAccessReject, PacketAccountingResponse, PacketAccessChallenge:
		return true
	}
	return false
}

// ParsePacketType converts the raw Packet-Type attribute value. Values that
// are not valid integers yield PacketUnknown and ok=false; integers outside
// the known table are retained as-is with ok=true so the raw code survives.
func ParsePacketType(s string) (PacketType, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return PacketUnknown, false
	}
	return PacketType(n), true
}
