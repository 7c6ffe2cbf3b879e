// Package config loads the site configuration (switches, directories, SNMP
// and server settings) from a YAML file with environment overrides, and
// builds the logger from it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SwitchConfig describes one switch to collect.
type SwitchConfig struct {
	Name         string   `mapstructure:"name"`
	ManagementIP string   `mapstructure:"management_ip"`
	Vendor       string   `mapstructure:"vendor"`
	Version      string   `mapstructure:"snmp_version"`
	Community    string   `mapstructure:"community"`
	TrunkPorts   []string `mapstructure:"trunk_ports"`
}

// RouterConfig describes one router used as an ARP source.
type RouterConfig struct {
	Name         string `mapstructure:"name"`
	ManagementIP string `mapstructure:"management_ip"`
	Version      string `mapstructure:"snmp_version"`
	Community    string `mapstructure:"community"`
}

// ServerConfig holds the search server settings.
type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Addr returns the listen address as host:port.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Site is the full site configuration.
type Site struct {
	DestinationDirectory string         `mapstructure:"destination_directory"`
	IdleSinceDirectory   string         `mapstructure:"idlesince_directory"`
	MaclistPath          string         `mapstructure:"maclist_path"`
	UnusedAfterDays      int            `mapstructure:"unused_after_days"`
	SNMPTimeout          time.Duration  `mapstructure:"snmp_timeout"`
	SNMPRetries          int            `mapstructure:"snmp_retries"`
	ScanConcurrency      int            `mapstructure:"scan_concurrency"`
	Server               ServerConfig   `mapstructure:"server"`
	Switches             []SwitchConfig `mapstructure:"switches"`
	Routers              []RouterConfig `mapstructure:"routers"`
}

// SwitchByName returns the named switch config, or nil if not configured.
func (s *Site) SwitchByName(name string) *SwitchConfig {
	for i := range s.Switches {
		if s.Switches[i].Name == name {
			return &s.Switches[i]
		}
	}
	return nil
}

// Load reads the site configuration. When configPath is empty, a file named
// switchmap.yaml is searched in the working directory and /etc/switchmap.
// SWITCHMAP_* environment variables override file values. The returned Viper
// instance carries the raw settings (used for logger construction).
func Load(configPath string) (*Site, *viper.Viper, error) {
	v := viper.New()

	v.SetDefault("destination_directory", "output")
	v.SetDefault("idlesince_directory", "idlesince")
	v.SetDefault("maclist_path", "maclist.db")
	v.SetDefault("unused_after_days", 30)
	v.SetDefault("snmp_timeout", "2s")
	v.SetDefault("snmp_retries", 1)
	v.SetDefault("scan_concurrency", 8)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("switchmap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/switchmap")
	}

	v.SetEnvPrefix("SWITCHMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine (defaults + env apply);
		// an explicitly named file must exist.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	}

	var site Site
	if err := v.Unmarshal(&site); err != nil {
		return nil, nil, fmt.Errorf("parse config: %w", err)
	}
	if err := site.validate(); err != nil {
		return nil, nil, err
	}
	return &site, v, nil
}

func (s *Site) validate() error {
	seen := make(map[string]struct{}, len(s.Switches))
	for _, sw := range s.Switches {
		if sw.Name == "" {
			return fmt.Errorf("switch with management IP %q has no name", sw.ManagementIP)
		}
		if sw.ManagementIP == "" {
			return fmt.Errorf("switch %q has no management IP", sw.Name)
		}
		if _, dup := seen[sw.Name]; dup {
			return fmt.Errorf("duplicate switch name %q", sw.Name)
		}
		seen[sw.Name] = struct{}{}
	}
	if s.ScanConcurrency < 1 {
		return fmt.Errorf("scan_concurrency must be at least 1, got %d", s.ScanConcurrency)
	}
	return nil
}
