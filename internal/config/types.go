package config

import (
	"os"
	"time"
)

// Connection modes understood by the device source.
const (
	ConnectionWifi   = "wifi"
	ConnectionBLE    = "ble"
	ConnectionSerial = "serial"
)

// Config represents the complete ~/.meshtastic-menubar.yml file.
// Key names match the original plugin so existing files keep working.
type Config struct {
	// Connection selects the transport: wifi, ble or serial.
	Connection string `yaml:"connection" mapstructure:"connection"`

	// Transport targets, one per connection mode.
	WifiHost   string `yaml:"wifi_host" mapstructure:"wifi_host"`
	SerialPort string `yaml:"serial_port" mapstructure:"serial_port"`
	BLEName    string `yaml:"ble_name" mapstructure:"ble_name"`

	// UseHTTPS switches the device web URL to https.
	UseHTTPS bool `yaml:"use_https" mapstructure:"use_https"`

	// Debug dumps the environment and node table as JSON instead of a menu.
	Debug bool `yaml:"debug" mapstructure:"debug"`

	// Log file names, relative to LogDir. Empty disables that log.
	LogNodesJSONL    string `yaml:"log_nodes_jsonl" mapstructure:"log_nodes_jsonl"`
	LogNodesCSV      string `yaml:"log_nodes_csv" mapstructure:"log_nodes_csv"`
	LogWifiReport    string `yaml:"log_wifi_report" mapstructure:"log_wifi_report"`
	LogTracerouteLog string `yaml:"log_traceroute_log" mapstructure:"log_traceroute_log"`
	LogDir           string `yaml:"log_dir" mapstructure:"log_dir"`

	// Bitbar is the host flavor: xbar, swiftbar, argos or local.
	Bitbar   string `yaml:"bitbar" mapstructure:"bitbar"`
	FontMono string `yaml:"font_mono" mapstructure:"font_mono"`

	// Interval is the host refresh period in minutes (display only).
	Interval int `yaml:"interval" mapstructure:"interval"`

	MeshtasticBin string `yaml:"meshtastic_bin" mapstructure:"meshtastic_bin"`
	// MeshtasticP1/P2 are the transport flag and target passed to the
	// meshtastic tool. They are recomputed from Connection when it is valid.
	MeshtasticP1 string `yaml:"meshtastic_p1" mapstructure:"meshtastic_p1"`
	MeshtasticP2 string `yaml:"meshtastic_p2" mapstructure:"meshtastic_p2"`

	// AttrSeparator and ShellAttr override the host flavor's defaults.
	AttrSeparator string `yaml:"attr_separator,omitempty" mapstructure:"attr_separator"`
	ShellAttr     string `yaml:"shell_attr,omitempty" mapstructure:"shell_attr"`

	// FetchTimeout bounds the meshtastic tool call. Zero leaves it unbounded.
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty" mapstructure:"fetch_timeout"`

	TelemetryTypes []string `yaml:"telemetry_types" mapstructure:"telemetry_types"`
	Texts          []string `yaml:"texts" mapstructure:"texts"`

	// Path is the file this config was loaded from. Not serialized.
	Path string `yaml:"-" mapstructure:"-"`
}

// DefaultTelemetryTypes are the telemetry kinds offered per node.
var DefaultTelemetryTypes = []string{
	"gps",
	"battery",
	"position",
	"user",
	"device",
}

// DefaultTexts are the canned messages offered for broadcast and direct send.
var DefaultTexts = []string{
	"Greetings",
	"Hello world!",
	"Hooty hoo!",
	"Howdy",
	"What up?",
	"New phone who dis?",
	"Good morning!",
	"Good night!",
	"Later",
	"Enroute",
	"Arrived",
	"Negative",
	"Affirmative",
	"Yes",
	"No",
	"LOL",
	"ROFL",
	"Eyes on",
	"Breakfast",
	"Brunch",
	"Lunch",
	"Supper",
	"Dinner",
	"Dessert",
	"Snacks",
	"Drinks",
	"Coffee",
	"Tea",
	"Beer",
	"Wine",
}

// DefaultConfig returns a Config with the plugin's defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Connection:       ConnectionWifi,
		WifiHost:         "meshtastic.local",
		SerialPort:       "/dev/CU.USBSERIAL-0001",
		BLEName:          "YOUR_NODE",
		UseHTTPS:         false,
		Debug:            false,
		LogNodesJSONL:    "meshtastic-menubar-nodes.jsonl",
		LogNodesCSV:      "meshtastic-menubar-nodes.csv",
		LogWifiReport:    "meshtastic-menubar-wifi-report.json",
		LogTracerouteLog: "meshtastic-menubar-traceroute.log",
		LogDir:           home,
		Bitbar:           "xbar",
		FontMono:         "Menlo-Regular",
		Interval:         5,
		MeshtasticBin:    "meshtastic",
		MeshtasticP1:     "--host",
		MeshtasticP2:     "meshtastic.local",
		TelemetryTypes:   append([]string(nil), DefaultTelemetryTypes...),
		Texts:            append([]string(nil), DefaultTexts...),
	}
}
