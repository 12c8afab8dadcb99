package nps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacketTypeString(t *testing.T) {
	assert.Equal(t, "Access-Request", PacketAccessRequest.String())
	assert.Equal(t, "Access-Accept", PacketAccessAccept.String())
	assert.Equal(t, "Access-Challenge", PacketAccessChallenge.String())
	assert.Equal(t, "Reserved", PacketReserved.String())
	// Unknown codes surface numerically instead of failing.
	assert.Equal(t, "42", PacketType(42).String())
	assert.False(t, PacketType(42).Known())
}

func TestPacketTypeClassification(t *testing.T) {
	assert.True(t, PacketAccessRequest.IsRequest())
	assert.True(t, PacketAccountingRequest.IsRequest())
	assert.False(t, PacketAccessAccept.IsRequest())

	for _, p := range []PacketType{PacketAccessAccept, PacketAccessReject, PacketAccessChallenge, PacketAccountingResponse} {
		assert.True(t, p.IsResponse(), p)
	}
	assert.False(t, PacketAccessRequest.IsResponse())
	assert.False(t, PacketStatusServer.IsResponse())
}

func TestParsePacketType(t *testing.T) {
	pt, ok := ParsePacketType("1")
	assert.True(t, ok)
	assert.Equal(t, PacketAccessRequest, pt)

	// Out-of-table codes are kept verbatim.
	pt, ok = ParsePacketType("99")
	assert.True(t, ok)
	assert.Equal(t, PacketType(99), pt)

	_, ok = ParsePacketType("Access-Request")
	assert.False(t, ok)
}

func TestReasonText(t *testing.T) {
	text, ok := ReasonText(0)
	assert.True(t, ok)
	assert.Contains(t, text, "successfully authenticated")

	text, ok = ReasonText(16)
	assert.True(t, ok)
	assert.Contains(t, text, "credentials mismatch")

	// Codes newer NPS builds may emit fall back to the raw number.
	text, ok = ReasonText(9999)
	assert.False(t, ok)
	assert.Equal(t, "9999", text)
}
