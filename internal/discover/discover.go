// Package discover finds Meshtastic radios that announce themselves over
// mDNS. Radios with WiFi enabled advertise _meshtastic._tcp on port 4403.
package discover

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
)

const (
	Service = "_meshtastic._tcp"
	Domain  = "local."

	// DefaultTimeout is how long Browse listens for answers.
	DefaultTimeout = 3 * time.Second
)

// Radio is one announced radio.
type Radio struct {
	Instance string   `json:"instance"`
	Host     string   `json:"host,omitempty"`
	Port     int      `json:"port,omitempty"`
	IPv4     []string `json:"ipv4,omitempty"`
	Text     []string `json:"text,omitempty"`
}

// FromEntry converts a browse result.
func FromEntry(e *zeroconf.ServiceEntry) Radio {
	r := Radio{
		Instance: e.Instance,
		Host:     strings.TrimSuffix(e.HostName, "."),
		Port:     e.Port,
		Text:     e.Text,
	}
	for _, ip := range e.AddrIPv4 {
		r.IPv4 = append(r.IPv4, ip.String())
	}
	return r
}

// Target is what to put in wifi_host: the mDNS host name, or the first
// address when the radio announced none.
func (r Radio) Target() string {
	if r.Host != "" {
		return r.Host
	}
	if len(r.IPv4) > 0 {
		return r.IPv4[0]
	}
	return ""
}

// Label describes the radio on one line.
func (r Radio) Label() string {
	label := r.Instance
	if t := r.Target(); t != "" && t != label {
		label += " (" + t
		if len(r.IPv4) > 0 && r.IPv4[0] != t {
			label += ", " + r.IPv4[0]
		}
		label += ")"
	}
	return label
}

// Matches reports whether target (a wifi_host value) names this radio.
func (r Radio) Matches(target string) bool {
	target = strings.TrimSuffix(strings.TrimSpace(target), ".")
	if target == "" {
		return false
	}
	if strings.EqualFold(target, r.Host) {
		return true
	}
	if ip := net.ParseIP(target); ip != nil {
		for _, addr := range r.IPv4 {
			if ip.Equal(net.ParseIP(addr)) {
				return true
			}
		}
	}
	return false
}

// Find returns the first radio matching target.
func Find(radios []Radio, target string) (Radio, bool) {
	for _, r := range radios {
		if r.Matches(target) {
			return r, true
		}
	}
	return Radio{}, false
}

// Merge adds r to radios unless an entry with the same instance is there
// already; answers repeat once per interface. Addresses are combined.
func Merge(radios []Radio, r Radio) []Radio {
	for i := range radios {
		if radios[i].Instance != r.Instance {
			continue
		}
		for _, ip := range r.IPv4 {
			if !contains(radios[i].IPv4, ip) {
				radios[i].IPv4 = append(radios[i].IPv4, ip)
			}
		}
		if radios[i].Host == "" {
			radios[i].Host = r.Host
		}
		return radios
	}
	return append(radios, r)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Browser lists the radios on the local network.
type Browser interface {
	Browse(ctx context.Context) ([]Radio, error)
}

// MDNSBrowser browses with multicast DNS.
type MDNSBrowser struct {
	Timeout time.Duration
	Log     logger.Logger
}

// NewBrowser returns an MDNSBrowser with the default timeout.
func NewBrowser() *MDNSBrowser {
	return &MDNSBrowser{Timeout: DefaultTimeout, Log: logger.Default()}
}

// Browse listens for announcements until the timeout or ctx ends and
// returns the radios heard, sorted by instance name. Hearing none is not an
// error.
func (b *MDNSBrowser) Browse(ctx context.Context) ([]Radio, error) {
	log := b.Log
	if log == nil {
		log = logger.Noop()
	}

	resolver, err := zeroconf.NewResolver()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDiscovery,
			"Couldn't start mDNS discovery",
			"Check that this machine has a network interface with multicast enabled")
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The resolver closes entries once ctx is done.
	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan []Radio, 1)
	go func() {
		var radios []Radio
		for e := range entries {
			log.Debug("mdns: %s at %s %v", e.Instance, e.HostName, e.AddrIPv4)
			radios = Merge(radios, FromEntry(e))
		}
		collected <- radios
	}()

	if err := resolver.Browse(ctx, Service, Domain, entries); err != nil {
		cancel()
		<-collected
		return nil, errors.WrapWithCode(err, errors.ErrDiscovery,
			fmt.Sprintf("Couldn't browse for %s", Service),
			"Check that the firewall allows mDNS (UDP 5353)")
	}

	<-ctx.Done()
	radios := <-collected
	sort.SliceStable(radios, func(i, j int) bool {
		return strings.ToLower(radios[i].Instance) < strings.ToLower(radios[j].Instance)
	})
	return radios, nil
}
