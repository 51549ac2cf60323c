package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the config file looked up in the home directory.
	ConfigFileName = ".meshtastic-menubar.yml"
	// EnvConfigFile selects a non-default config file path.
	EnvConfigFile = "MM_CONFIG_FILE"
)

// Path resolves the config file location:
// 1. Explicit path (from --config flag)
// 2. $MM_CONFIG_FILE
// 3. ~/.meshtastic-menubar.yml
func Path(explicit string) string {
	if explicit != "" {
		return ExpandTilde(explicit)
	}
	if env := os.Getenv(EnvConfigFile); env != "" {
		return ExpandTilde(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(home, ConfigFileName)
}

// Load reads config from the specified path, merged over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Run 'meshtastic-menubar init' to create one, or set "+EnvConfigFile)
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// LoadOrDefault loads the config at path, or returns defaults when the file
// does not exist. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Path = path
		cfg.finalize()
		return cfg, nil
	}
	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	cfg.Path = path
	cfg.finalize()
	return cfg, nil
}

// finalize expands paths and derives the transport parameters from the
// connection mode. Unknown modes keep the configured p1/p2.
func (c *Config) finalize() {
	c.Connection = strings.ToLower(strings.TrimSpace(c.Connection))
	c.Bitbar = strings.ToLower(strings.TrimSpace(c.Bitbar))
	c.LogDir = ExpandTilde(c.LogDir)
	c.SerialPort = ExpandTilde(c.SerialPort)

	switch c.Connection {
	case ConnectionWifi:
		c.MeshtasticP1 = "--host"
		c.MeshtasticP2 = c.WifiHost
	case ConnectionBLE:
		c.MeshtasticP1 = "--ble"
		c.MeshtasticP2 = c.BLEName
	case ConnectionSerial:
		c.MeshtasticP1 = "--port"
		c.MeshtasticP2 = c.SerialPort
	}
}

// ValidConnection reports whether Connection names a known transport.
func (c *Config) ValidConnection() bool {
	switch c.Connection {
	case ConnectionWifi, ConnectionBLE, ConnectionSerial:
		return true
	}
	return false
}

// TransportArgs returns the flag/target pair handed to the meshtastic tool.
func (c *Config) TransportArgs() []string {
	return []string{c.MeshtasticP1, c.MeshtasticP2}
}

// Target returns the transport target for the active connection mode.
func (c *Config) Target() string {
	switch c.Connection {
	case ConnectionBLE:
		return c.BLEName
	case ConnectionSerial:
		return c.SerialPort
	default:
		return c.WifiHost
	}
}

// TargetURL is the device web interface base URL.
func (c *Config) TargetURL() string {
	if c.UseHTTPS {
		return "https://" + c.WifiHost
	}
	return "http://" + c.WifiHost
}

// LogPath joins a log file name onto LogDir. Returns "" for an empty name,
// which callers treat as "this log is disabled".
func (c *Config) LogPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.LogDir, name)
}

// Entries lists every setting as "key=value", sorted by key.
func (c *Config) Entries() []string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys)+1)
	out = append(out, "config_file="+c.Path)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return out
}
