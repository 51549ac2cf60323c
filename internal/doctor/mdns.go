package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/discover"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// MDNSCheck looks for wifi_host among the radios announced on the network.
type MDNSCheck struct {
	Config  *config.Config
	Browser discover.Browser
}

func (c *MDNSCheck) Name() string     { return "mdns" }
func (c *MDNSCheck) Category() string { return "RADIO" }

func (c *MDNSCheck) Run(ctx context.Context) CheckResult {
	if c.Config.Connection != config.ConnectionWifi {
		return skip("Not using wifi")
	}

	radios, err := c.Browser.Browse(ctx)
	if err != nil {
		var mmErr *errors.Error
		if errors.As(err, &mmErr) {
			return warn(mmErr.Short(), mmErr.Suggestion)
		}
		return warn("mDNS discovery failed: "+err.Error(), "")
	}

	host := c.Config.WifiHost
	if r, ok := discover.Find(radios, host); ok {
		return pass(fmt.Sprintf("%s announced by %s", host, r.Label()))
	}

	if len(radios) == 0 {
		return warn("No radios announced over mDNS",
			"Check the radio's WiFi is on and joined to this network. mDNS does not cross subnets or VPNs; use the radio's IP there.")
	}

	labels := make([]string, len(radios))
	for i, r := range radios {
		labels[i] = r.Label()
	}
	return warn(fmt.Sprintf("%s not among announced radios: %s", host, strings.Join(labels, ", ")),
		"Point wifi_host at one of them: meshtastic-menubar config set wifi_host "+radios[0].Target())
}
