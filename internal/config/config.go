package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Journals       []string   `yaml:"journals"`
	FlagshipVenues []string   `yaml:"flagship_venues"`
	Timezone       string     `yaml:"timezone"`
	Output         Output     `yaml:"output"`
	Enrichment     Enrichment `yaml:"enrichment"`
}

type Output struct {
	Dir    string `yaml:"dir"`
	DBPath string `yaml:"db_path"`
}

type Enrichment struct {
	Model           string `yaml:"model"`
	APIKeyEnv       string `yaml:"api_key_env"`
	ContactEmailEnv string `yaml:"contact_email_env"`
}

// ConfigDir returns the XDG config directory for oceandigest.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "oceandigest")
}

// DataDir returns the XDG data directory for oceandigest.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "oceandigest")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/oceandigest/config.yaml > ./config.yaml.
// An empty path with a nil error means no file exists and the embedded
// defaults should be used.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	return parse(nil)
}

// parse layers YAML bytes over the embedded defaults. Keys absent from data
// keep their default values; present keys, including lists, replace them.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing built-in defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// OutputDir returns the effective output directory.
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return c.Output.Dir
	}
	return "docs"
}

// DBPath returns the run archive location, defaulting into the XDG data dir
// so the archive is not published alongside the JSON output.
func (c *Config) DBPath() string {
	if c.Output.DBPath != "" {
		return c.Output.DBPath
	}
	return filepath.Join(DataDir(), "digest.db")
}

// FlagshipSet returns the flagship venue names as a lookup set.
func (c *Config) FlagshipSet() map[string]bool {
	set := make(map[string]bool, len(c.FlagshipVenues))
	for _, v := range c.FlagshipVenues {
		set[v] = true
	}
	return set
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
