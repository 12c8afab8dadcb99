// Package seeder generates synthetic NPS XML event logs for demos and
// tests: a realistic fleet of users and access points producing
// authentication exchanges with a configurable failure and corruption mix.
package seeder

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/nps"
)

// Config controls the generated log shape.
type Config struct {
	Seed       int64
	Sessions   int
	Users      int
	APs        int
	Servers    int
	RejectRate float64 // fraction of sessions ending in Access-Reject
	// MalformedRate is the fraction of records emitted truncated, to
	// exercise parse-error handling.
	MalformedRate float64
	Start         time.Time
	TimeSpan      time.Duration
}

// DefaultConfig returns a small but realistic log shape.
func DefaultConfig() Config {
	return Config{
		Seed:       0,
		Sessions:   200,
		Users:      25,
		APs:        8,
		Servers:    2,
		RejectRate: 0.2,
		Start:      time.Now().Add(-24 * time.Hour).Truncate(time.Second),
		TimeSpan:   24 * time.Hour,
	}
}

type accessPoint struct {
	ip   string
	name string
}

// Generator produces synthetic logs deterministically for a given seed.
type Generator struct {
	cfg     Config
	faker   *gofakeit.Faker
	users   []string
	macs    []string
	aps     []accessPoint
	servers []string
}

// New creates a generator with a pre-built fleet.
func New(cfg Config) *Generator {
	faker := gofakeit.New(cfg.Seed)
	g := &Generator{cfg: cfg, faker: faker}
	for i := 0; i < cfg.Users; i++ {
		g.users = append(g.users, strings.ToLower(faker.Username()))
		g.macs = append(g.macs, strings.ToUpper(faker.MacAddress()))
	}
	for i := 0; i < cfg.APs; i++ {
		g.aps = append(g.aps, accessPoint{
			ip:   faker.IPv4Address(),
			name: fmt.Sprintf("AP-%s-%02d", strings.ToUpper(faker.LetterN(3)), i+1),
		})
	}
	for i := 0; i < cfg.Servers; i++ {
		g.servers = append(g.servers, fmt.Sprintf("NPS-%s", strings.ToUpper(faker.LetterN(4))))
	}
	return g
}

// rejectReasons are the codes the generator picks failures from.
var rejectReasons = []int{8, 16, 22, 36, 48, 65, 66, 262}

// WriteLog writes the synthetic log to w. Events are emitted in
// chronological order, one <Event> record per line, matching the NPS DTS
// layout.
func (g *Generator) WriteLog(w io.Writer) error {
	cfg := g.cfg
	if cfg.Sessions <= 0 {
		return nil
	}
	step := cfg.TimeSpan / time.Duration(cfg.Sessions)
	for i := 0; i < cfg.Sessions; i++ {
		at := cfg.Start.Add(time.Duration(i) * step)
		if err := g.writeSession(w, i, at); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writeSession(w io.Writer, n int, at time.Time) error {
	user := g.users[g.faker.IntRange(0, len(g.users)-1)]
	mac := g.macs[g.faker.IntRange(0, len(g.macs)-1)]
	ap := g.aps[g.faker.IntRange(0, len(g.aps)-1)]
	server := g.servers[g.faker.IntRange(0, len(g.servers)-1)]
	sessionID := fmt.Sprintf("%08X", n+1)

	rejected := g.faker.Float64Range(0, 1) < g.cfg.RejectRate

	// One or two request/challenge rounds, then the terminal response.
	rounds := 1 + g.faker.IntRange(0, 1)
	ts := at
	for r := 0; r < rounds; r++ {
		if err := g.writeEvent(w, event{
			ts: ts, packet: nps.PacketAccessRequest, server: server,
			ap: ap, mac: mac, user: user, sessionID: sessionID,
		}); err != nil {
			return err
		}
		ts = ts.Add(time.Duration(g.faker.IntRange(50, 900)) * time.Millisecond)
		if r < rounds-1 {
			if err := g.writeEvent(w, event{
				ts: ts, packet: nps.PacketAccessChallenge, server: server,
				ap: ap, sessionID: sessionID,
			}); err != nil {
				return err
			}
			ts = ts.Add(time.Duration(g.faker.IntRange(50, 900)) * time.Millisecond)
		}
	}

	terminal := event{ts: ts, server: server, ap: ap, sessionID: sessionID}
	if rejected {
		terminal.packet = nps.PacketAccessReject
		code := rejectReasons[g.faker.IntRange(0, len(rejectReasons)-1)]
		terminal.reason = &code
	} else {
		terminal.packet = nps.PacketAccessAccept
		zero := 0
		terminal.reason = &zero
	}
	return g.writeEvent(w, terminal)
}

type event struct {
	ts        time.Time
	packet    nps.PacketType
	server    string
	ap        accessPoint
	mac       string
	user      string
	sessionID string
	reason    *int
}

func (g *Generator) writeEvent(w io.Writer, ev event) error {
	var b strings.Builder
	b.WriteString("<Event>")
	field(&b, "Timestamp", ev.ts.Format("01/02/2006 15:04:05.000"))
	field(&b, "Computer-Name", ev.server)
	field(&b, "Packet-Type", fmt.Sprintf("%d", int(ev.packet)))
	field(&b, "Client-IP-Address", ev.ap.ip)
	field(&b, "Client-Friendly-Name", ev.ap.name)
	if ev.mac != "" {
		field(&b, "Calling-Station-Id", ev.mac)
	}
	if ev.user != "" {
		field(&b, "SAM-Account-Name", ev.user)
	}
	field(&b, "Acct-Session-Id", ev.sessionID)
	if ev.reason != nil {
		field(&b, "Reason-Code", fmt.Sprintf("%d", *ev.reason))
	}
	b.WriteString("</Event>")

	record := b.String()
	if g.cfg.MalformedRate > 0 && g.faker.Float64Range(0, 1) < g.cfg.MalformedRate {
		record = record[:len(record)/2]
	}
	_, err := io.WriteString(w, record+"\n")
	return err
}

func field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "<%s data_type=\"1\">%s</%s>", name, value, name)
}
