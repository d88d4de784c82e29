// Package config provides hosts file parsing.
package config

import (
	"fmt"
	"strings"

	"gowol/internal/magic"
	"gowol/internal/models"

	"github.com/spf13/viper"
)

// Parser handles hosts file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new hosts file parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads the hosts file from a path.
func (p *Parser) LoadFile(path string) (*models.HostsConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading hosts file: %w", err)
	}

	return p.parse()
}

// LoadReader loads the hosts file from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.HostsConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading hosts: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.HostsConfig, error) {
	raw := p.v.GetStringMap("hosts")
	if len(raw) == 0 {
		return nil, fmt.Errorf("hosts is required")
	}

	cfg := &models.HostsConfig{Hosts: make(map[string]models.HostEntry, len(raw))}

	// viper lowercases keys, so host names are case-insensitive.
	for name := range raw {
		key := "hosts." + name
		entry := models.HostEntry{
			MACAddress: p.v.GetString(key + ".mac"),
			Broadcast:  p.v.GetString(key + ".broadcast"),
			Port:       p.v.GetInt(key + ".port"),
		}

		if entry.MACAddress == "" {
			return nil, fmt.Errorf("hosts.%s.mac is required", name)
		}
		if _, err := magic.ParseMAC(entry.MACAddress); err != nil {
			return nil, fmt.Errorf("hosts.%s: %w", name, err)
		}

		// Set defaults.
		if entry.Port == 0 {
			entry.Port = magic.Port
		}

		cfg.Hosts[name] = entry
	}

	return cfg, nil
}

// Resolve looks up a named wake target.
func Resolve(cfg *models.HostsConfig, name string) (models.HostEntry, error) {
	entry, ok := cfg.Hosts[strings.ToLower(name)]
	if !ok {
		return models.HostEntry{}, fmt.Errorf("unknown host %q", name)
	}
	return entry, nil
}

// Validate performs validation on a loaded hosts configuration.
func Validate(cfg *models.HostsConfig) error {
	if cfg == nil {
		return fmt.Errorf("hosts configuration is nil")
	}

	if len(cfg.Hosts) == 0 {
		return fmt.Errorf("no hosts configured")
	}

	for name, entry := range cfg.Hosts {
		if _, err := magic.ParseMAC(entry.MACAddress); err != nil {
			return fmt.Errorf("host %s: %w", name, err)
		}
	}

	return nil
}
